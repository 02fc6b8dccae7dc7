// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

var builtinLayouts = []LayoutDefinition{
	// --- Hero ---
	{
		ID:          "hero-minimal",
		SectionType: Hero,
		Variant:     "minimal",
		Name:        "Minimal Hero",
		Description: "Clean, minimalist hero section with centered text",
		Keywords: []string{
			"minimal", "clean", "simple", "modern", "elegant", "professional",
			"corporate", "tech", "saas", "startup", "software",
		},
		RequiredFields: []string{"headline", "subheadline", "ctaPrimary", "ctaSecondary"},
	},
	{
		ID:          "hero-image-right",
		SectionType: Hero,
		Variant:     "image-right",
		Name:        "Hero with Image Right",
		Description: "Hero section with text on left and image on right",
		Keywords: []string{
			"visual", "product", "showcase", "app", "service", "platform",
			"ecommerce", "marketplace", "photography", "creative", "portfolio",
		},
		RequiredFields: []string{"headline", "subheadline", "ctaPrimary", "imageAlt"},
		MediaFields:    []string{"imageUrl"},
	},
	{
		ID:          "hero-bold",
		SectionType: Hero,
		Variant:     "bold",
		Name:        "Bold Hero",
		Description: "Large, bold hero section with background image",
		Keywords: []string{
			"bold", "impact", "dramatic", "fashion", "lifestyle", "luxury",
			"retail", "brand", "marketing", "agency", "creative",
		},
		RequiredFields: []string{"headline", "subheadline", "ctaPrimary"},
		MediaFields:    []string{"backgroundImage"},
	},
	{
		ID:          "hero-video-background",
		SectionType: Hero,
		Variant:     "video-background",
		Name:        "Video Background Hero",
		Description: "Dynamic hero with video background",
		Keywords: []string{
			"video", "dynamic", "modern", "engaging", "media", "entertainment",
			"fitness", "gym", "sports", "active", "lifestyle", "adventure",
		},
		RequiredFields: []string{"headline", "subheadline", "ctaPrimary"},
		MediaFields:    []string{"videoUrl"},
	},

	// --- Product grid ---
	{
		ID:          "product-grid-3col",
		SectionType: ProductGrid,
		Variant:     "3-column",
		Name:        "3-Column Product Grid",
		Description: "Classic 3-column product grid layout",
		Keywords: []string{
			"products", "catalog", "shop", "store", "ecommerce", "retail",
			"fashion", "clothing", "accessories", "merchandise", "standard",
		},
		RequiredFields: []string{"sectionTitle", "products"},
	},
	{
		ID:          "product-grid-masonry",
		SectionType: ProductGrid,
		Variant:     "masonry",
		Name:        "Masonry Product Grid",
		Description: "Pinterest-style masonry grid layout",
		Keywords: []string{
			"creative", "artistic", "gallery", "portfolio", "photography",
			"art", "design", "handmade", "crafts", "unique", "boutique",
		},
		RequiredFields: []string{"sectionTitle", "products"},
	},
	{
		ID:          "product-grid-list",
		SectionType: ProductGrid,
		Variant:     "list",
		Name:        "List View Product Grid",
		Description: "Horizontal list-style product display",
		Keywords: []string{
			"detailed", "information", "specifications", "tech", "electronics",
			"software", "services", "professional", "business", "b2b",
		},
		RequiredFields: []string{"sectionTitle", "products"},
	},

	// --- Featured products ---
	{
		ID:          "featured-carousel",
		SectionType: FeaturedProducts,
		Variant:     "carousel",
		Name:        "Featured Products Carousel",
		Description: "Sliding carousel of featured products",
		Keywords: []string{
			"featured", "highlight", "bestseller", "new", "trending", "popular",
			"recommendations", "curated", "selected", "special",
		},
		RequiredFields: []string{"sectionTitle", "products"},
	},
	{
		ID:          "featured-split",
		SectionType: FeaturedProducts,
		Variant:     "split",
		Name:        "Split Featured Products",
		Description: "Two large featured products side by side",
		Keywords: []string{
			"comparison", "options", "choice", "dual", "packages", "plans",
			"premium", "exclusive", "limited", "special offer",
		},
		RequiredFields: []string{"products"},
	},

	// --- Testimonials ---
	{
		ID:          "testimonials-grid",
		SectionType: Testimonials,
		Variant:     "grid",
		Name:        "Testimonials Grid",
		Description: "Grid layout for customer testimonials",
		Keywords: []string{
			"reviews", "testimonials", "feedback", "customers", "trust",
			"social proof", "ratings", "satisfaction", "experience",
		},
		RequiredFields: []string{"sectionTitle", "testimonials"},
	},
	{
		ID:          "testimonials-slider",
		SectionType: Testimonials,
		Variant:     "slider",
		Name:        "Testimonials Slider",
		Description: "Sliding testimonials with large quotes",
		Keywords: []string{
			"showcase", "highlight", "featured", "stories", "success",
			"case studies", "clients", "partnerships",
		},
		RequiredFields: []string{"sectionTitle", "testimonials"},
	},

	// --- Newsletter ---
	{
		ID:          "newsletter-centered",
		SectionType: Newsletter,
		Variant:     "centered",
		Name:        "Centered Newsletter Signup",
		Description: "Simple centered newsletter signup",
		Keywords: []string{
			"subscribe", "newsletter", "email", "signup", "updates",
			"notifications", "stay informed", "join", "community",
		},
		RequiredFields: []string{"headline", "description", "placeholder", "cta"},
	},
	{
		ID:          "newsletter-split",
		SectionType: Newsletter,
		Variant:     "split",
		Name:        "Split Newsletter Section",
		Description: "Newsletter signup with benefits on the side",
		Keywords: []string{
			"benefits", "perks", "exclusive", "insider", "vip", "members",
			"rewards", "offers", "deals", "discounts",
		},
		RequiredFields: []string{"headline", "description", "placeholder", "cta", "benefitsHeadline", "benefits"},
	},

	// --- Footer ---
	{
		ID:          "footer-minimal",
		SectionType: Footer,
		Variant:     "minimal",
		Name:        "Minimal Footer",
		Description: "Simple footer with essential links",
		Keywords: []string{
			"simple", "clean", "minimal", "basic", "essential", "straightforward",
		},
		RequiredFields: []string{"copyright", "links"},
	},
	{
		ID:          "footer-comprehensive",
		SectionType: Footer,
		Variant:     "comprehensive",
		Name:        "Comprehensive Footer",
		Description: "Full-featured footer with multiple columns",
		Keywords: []string{
			"detailed", "comprehensive", "full", "complete", "extensive",
			"corporate", "enterprise", "professional", "business",
		},
		RequiredFields: []string{"aboutHeadline", "aboutText", "columns", "copyright", "socialLinks"},
	},
}
