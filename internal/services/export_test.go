package services

// NewGeminiDescriberForTest exposes the generator seam to external tests.
var NewGeminiDescriberForTest = newGeminiDescriber
