package controllers

import "time"

// SetLinkTimeout shortens the link lookup deadline in tests.
func (c *LandmarkController) SetLinkTimeout(d time.Duration) {
	c.linkTimeout = d
}
