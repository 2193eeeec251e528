package model

// Service is one of the hotel's offerings (boarding, grooming, ...).
type Service struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	LongDescription string `json:"longDescription,omitempty"`
	Icon            string `json:"icon"`
	Image           string `json:"image"`
}

// Package is a priced bundle shown on the packages page.
type Package struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Features  []string `json:"features"`
	Highlight bool     `json:"highlight,omitempty"`
}

// GalleryCategory groups gallery images.
type GalleryCategory string

const (
	GalleryBoarding GalleryCategory = "boarding"
	GalleryGrooming GalleryCategory = "grooming"
	GalleryPlay     GalleryCategory = "play"
	GalleryTraining GalleryCategory = "training"
)

// GalleryItem is a single gallery image.
type GalleryItem struct {
	ID       string          `json:"id"`
	Src      string          `json:"src"`
	Alt      string          `json:"alt"`
	Category GalleryCategory `json:"category"`
}

// Valid reports whether c is one of the known categories.
func (c GalleryCategory) Valid() bool {
	switch c {
	case GalleryBoarding, GalleryGrooming, GalleryPlay, GalleryTraining:
		return true
	}
	return false
}
