// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "maps"

const placeholderHost = "https://placehold.co"

// Fallback returns deterministic content for the given fields of a section
// of type t. Every field is present and well formed, so
// Validate(Fallback(t, f), f).Valid always holds.
func Fallback(t SectionType, fields []string) Content {
	c := make(Content, len(fields))
	for _, name := range fields {
		c[name] = fallbackValue(t, name)
	}
	return c
}

// LayoutFallback returns fallback content for a layout's required and
// media fields.
func LayoutFallback(l LayoutDefinition) Content {
	fields := make([]string, 0, len(l.RequiredFields)+len(l.MediaFields))
	fields = append(fields, l.RequiredFields...)
	fields = append(fields, l.MediaFields...)
	return Fallback(l.SectionType, fields)
}

// ApplyFallback returns a copy of content in which every missing or
// malformed field is replaced by its fallback value, plus the names of the
// replaced fields in field order.
func ApplyFallback(t SectionType, content Content, fields []string) (Content, []string) {
	out := make(Content, len(content)+len(fields))
	maps.Copy(out, content)

	var repaired []string
	for _, name := range fields {
		v, ok := out[name]
		if ok && v != nil && wellFormed(KindOf(name), v) {
			continue
		}
		out[name] = fallbackValue(t, name)
		repaired = append(repaired, name)
	}
	return out, repaired
}

func fallbackValue(t SectionType, name string) any {
	switch name {
	case "headline":
		if t == Newsletter {
			return "Stay in the Loop"
		}
		return "Welcome to Our Store"
	case "subheadline":
		return "Discover amazing products and services"
	case "ctaPrimary":
		return "Get Started"
	case "ctaSecondary":
		return "Learn More"
	case "sectionTitle":
		switch t {
		case Testimonials:
			return "What Our Customers Say"
		case FeaturedProducts:
			return "Featured Products"
		}
		return "Our Products"
	case "imageAlt":
		return "Store hero image"
	case "imageUrl":
		return placeholderHost + "/800x600/png?text=Hero+Image"
	case "backgroundImage":
		return placeholderHost + "/1920x1080/png?text=Hero+Background"
	case "videoUrl":
		return placeholderHost + "/1920x1080/png?text=Hero+Video"
	case "description":
		return "Subscribe to get news, special offers and first access to new arrivals."
	case "placeholder":
		return "Enter your email"
	case "cta":
		return "Subscribe"
	case "benefitsHeadline":
		return "Why subscribe?"
	case "aboutHeadline":
		return "About Us"
	case "aboutText":
		return "We are passionate about bringing you quality products and great service."
	case "copyright":
		return "© All rights reserved."
	}

	switch KindOf(name) {
	case KindProducts:
		return normalize(fallbackProducts(t))
	case KindTestimonials:
		return normalize([]Testimonial{{
			Quote:       "Great experience!",
			AuthorName:  "John Doe",
			AuthorTitle: "Customer",
			Rating:      5,
			AuthorImage: placeholderHost + "/100x100/png?text=JD",
		}})
	case KindLinks:
		return normalize(fallbackLinks())
	case KindBenefits:
		return normalize([]string{
			"Exclusive member discounts",
			"Early access to new products",
			"Tips and inspiration in your inbox",
		})
	case KindColumns:
		return normalize([]FooterColumn{
			{Title: "Shop", Links: []Link{{Text: "All Products", URL: "/products"}, {Text: "New Arrivals", URL: "/new"}}},
			{Title: "Support", Links: []Link{{Text: "Contact", URL: "/contact"}, {Text: "Shipping", URL: "/shipping"}}},
		})
	case KindSocialLinks:
		return normalize([]SocialLink{
			{Platform: "Instagram", URL: "https://instagram.com", Icon: "instagram"},
			{Platform: "Facebook", URL: "https://facebook.com", Icon: "facebook"},
		})
	case KindImage:
		return placeholderHost + "/800x600/png?text=Image"
	}
	return "Default " + name
}

func fallbackProducts(t SectionType) []Product {
	products := []Product{
		{Name: "Product 1", Description: "Amazing product", Price: "$99.99", Image: placeholderHost + "/400x400/png?text=Product+1"},
		{Name: "Product 2", Description: "Great product", Price: "$149.99", Image: placeholderHost + "/400x400/png?text=Product+2"},
		{Name: "Product 3", Description: "Fantastic product", Price: "$199.99", Image: placeholderHost + "/400x400/png?text=Product+3"},
	}
	if t == FeaturedProducts {
		for i := range products {
			products[i].Badge = "Featured"
			products[i].CTA = "Shop Now"
		}
	}
	return products
}

func fallbackLinks() []Link {
	return []Link{
		{Text: "Home", URL: "/"},
		{Text: "About", URL: "/about"},
		{Text: "Contact", URL: "/contact"},
		{Text: "Privacy", URL: "/privacy"},
	}
}
