// Package catalog holds the static marketing content of the site: services,
// packages and gallery images. The content ships with the binary; there is no
// admin surface to edit it.
package catalog

import "github.com/lovinghomes/site/internal/model"

var services = []model.Service{
	{
		ID:              "boarding",
		Title:           "Luxury Boarding",
		Description:     "Private suites with orthopedic bedding, 24/7 monitoring, and soothing ambient music.",
		LongDescription: "Our Luxury Boarding experience is redefined for the modern canine. Each guest enjoys a private, climate-controlled suite featuring orthopedic memory foam bedding and ambient calming playlists curated by animal behaviorists. With 24/7 webcams, you can check in on your furry friend anytime. The stay includes three guided relief walks daily and a bedtime tuck-in service.",
		Icon:            "home",
		Image:           "https://images.unsplash.com/photo-1591946614720-90a587da4a36?q=80&w=800&auto=format&fit=crop",
	},
	{
		ID:              "grooming",
		Title:           "Spa & Grooming",
		Description:     "Full-service spa treatments including blueberry facials, pawdicures, and aromatherapy.",
		LongDescription: "Indulge your pet in our world-class Spa & Grooming salon. We use only organic, hypoallergenic products. Our services range from breed-specific cuts to luxurious treatments like blueberry facials, mud baths for joint relief, and aromatherapy paw massages. Every session ends with a hand-dry and a spritz of our signature pet-safe cologne.",
		Icon:            "scissors",
		Image:           "https://images.unsplash.com/photo-1552053831-71594a27632d?q=80&w=800&auto=format&fit=crop",
	},
	{
		ID:              "training",
		Title:           "Elite Training",
		Description:     "Positive reinforcement training from certified behaviorists focusing on obedience and agility.",
		LongDescription: "Unlock your dog's full potential with our Elite Training programs. Led by certified behaviorists, we focus on positive reinforcement techniques. Whether it is basic obedience, leash reactivity, or advanced agility coursing, we customize a curriculum to your dog's learning style. Detailed progress reports and handover sessions ensure the training sticks at home.",
		Icon:            "award",
		Image:           "https://images.unsplash.com/photo-1587300003388-59208cc962cb?q=80&w=800&auto=format&fit=crop",
	},
	{
		ID:              "adventure",
		Title:           "Adventure Treks",
		Description:     "Guided hikes and swim sessions in Hong Kong's most beautiful nature trails.",
		LongDescription: "For the high-energy explorer, our Adventure Treks offer the ultimate escape. We take small groups on guided hikes through Hong Kong's most scenic trails, from Sai Kung's beaches to the Dragon's Back. Safety is paramount, with GPS trackers on every dog and a 1:3 handler-to-dog ratio. Includes swim sessions (weather permitting) and a post-adventure cleanup.",
		Icon:            "map-pin",
		Image:           "https://images.unsplash.com/photo-1534361960057-19889db9621e?q=80&w=800&auto=format&fit=crop",
	},
}

var packages = []model.Package{
	{
		ID:       "daycare",
		Name:     "Day Escape",
		Price:    "$450 HKD",
		Features: []string{"8 Hours of Play", "Socialization", "Mid-day Snack", "Grooming Touch-up"},
	},
	{
		ID:        "suite",
		Name:      "Executive Suite",
		Price:     "$850 HKD / Night",
		Features:  []string{"Private Room", "Webcam Access", "3 Walks Daily", "Gourmet Dinner"},
		Highlight: true,
	},
	{
		ID:       "villa",
		Name:     "Royal Villa",
		Price:    "$1200 HKD / Night",
		Features: []string{"Large Private Garden", "Therapeutic Massage", "24/7 Butler", "Chauffeur Service"},
	},
	{
		ID:       "training_camp",
		Name:     "Scholar Camp",
		Price:    "$5000 HKD / Week",
		Features: []string{"Intensive Training", "Boarding Included", "Daily Progress Video", "Graduation Photo"},
	},
}

var gallery = []model.GalleryItem{
	{ID: "1", Src: "https://images.unsplash.com/photo-1530281700549-e82e7bf110d6?q=80&w=800", Alt: "Dog running", Category: model.GalleryPlay},
	{ID: "2", Src: "https://images.unsplash.com/photo-1548199973-03cce0bbc87b?q=80&w=800", Alt: "Dog jumping", Category: model.GalleryPlay},
	{ID: "3", Src: "https://images.unsplash.com/photo-1516734212186-a967f81ad0d7?q=80&w=800&auto=format&fit=crop", Alt: "Grooming", Category: model.GalleryGrooming},
	{ID: "4", Src: "https://images.unsplash.com/photo-1510771463146-e89e6e86560e?q=80&w=800", Alt: "Sleeping dog", Category: model.GalleryBoarding},
	{ID: "5", Src: "https://images.unsplash.com/photo-1583511655857-d19b40a7a54e?q=80&w=800", Alt: "Cute puppy", Category: model.GalleryBoarding},
	{ID: "6", Src: "https://images.unsplash.com/photo-1537151608828-ea2b11777ee8?q=80&w=800", Alt: "Training session", Category: model.GalleryTraining},
}

// Services returns every service in display order.
func Services() []model.Service {
	return append([]model.Service(nil), services...)
}

// ServiceByID returns the service with the given id.
func ServiceByID(id string) (model.Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return model.Service{}, false
}

// Packages returns every package in display order.
func Packages() []model.Package {
	out := make([]model.Package, len(packages))
	for i, p := range packages {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// PackageByID returns the package with the given id.
func PackageByID(id string) (model.Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			p.Features = append([]string(nil), p.Features...)
			return p, true
		}
	}
	return model.Package{}, false
}

// Gallery returns gallery items, optionally restricted to one category.
// An empty category returns everything.
func Gallery(category model.GalleryCategory) []model.GalleryItem {
	out := make([]model.GalleryItem, 0, len(gallery))
	for _, item := range gallery {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// IsInterest reports whether id is a valid "Interested In" value of the
// booking form: the general option, a service or a package.
func IsInterest(id string) bool {
	if id == model.InterestGeneral {
		return true
	}
	if _, ok := ServiceByID(id); ok {
		return true
	}
	_, ok := PackageByID(id)
	return ok
}
