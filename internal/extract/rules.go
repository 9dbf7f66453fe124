// internal/extract/rules.go
package extract

import (
	"github.com/valpere/ShopScrapexter/internal/platform"
)

// Ruleset bundles the selector lists one platform uses across every
// field category. Selectors within a list are ordered: the first one
// matching non-empty content wins. A category left empty falls back to
// the generic ruleset for that category only.
type Ruleset struct {
	Title       []string        `yaml:"title,omitempty" json:"title,omitempty"`
	Brand       []string        `yaml:"brand,omitempty" json:"brand,omitempty"`
	Description []string        `yaml:"description,omitempty" json:"description,omitempty"`
	Price       []string        `yaml:"price,omitempty" json:"price,omitempty"`
	Shipping    []string        `yaml:"shipping,omitempty" json:"shipping,omitempty"`
	Images      []string        `yaml:"images,omitempty" json:"images,omitempty"`
	Specs       []string        `yaml:"specs,omitempty" json:"specs,omitempty"`
	Reviews     ReviewSelectors `yaml:"reviews,omitempty" json:"reviews,omitempty"`
}

// ReviewSelectors locates the review list and the fields within one
// review item.
type ReviewSelectors struct {
	Container string `yaml:"container,omitempty" json:"container,omitempty"`
	Item      string `yaml:"item,omitempty" json:"item,omitempty"`
	Author    string `yaml:"author,omitempty" json:"author,omitempty"`
	Rating    string `yaml:"rating,omitempty" json:"rating,omitempty"`
	Content   string `yaml:"content,omitempty" json:"content,omitempty"`
	Date      string `yaml:"date,omitempty" json:"date,omitempty"`
	Verified  string `yaml:"verified,omitempty" json:"verified,omitempty"`
}

func (rs ReviewSelectors) empty() bool {
	return rs.Container == "" && rs.Item == ""
}

// genericRules is the platform-agnostic fallback ruleset.
var genericRules = Ruleset{
	Title:       []string{`h1[itemprop="name"]`, "h1.product-title", "h1"},
	Brand:       []string{`[itemprop="brand"]`, ".brand", ".vendor"},
	Description: []string{`[itemprop="description"]`, ".product-description", "#description"},
	Price:       []string{`[itemprop="price"]`, ".price", `[class*="price"]`},
	Shipping:    []string{`[class*="shipping"]`, `[class*="delivery"]`, `[class*="livraison"]`},
	Images:      []string{`[itemprop="image"]`, ".product-gallery img", ".product-image img", ".gallery img"},
	Specs:       []string{`[class*="specification"] tr`, `[class*="specs"] tr`, "table tr"},
	Reviews: ReviewSelectors{
		Container: `[class*="review"]`,
		Item:      `[class*="review-item"], [class*="review "]`,
		Author:    `[class*="author"], [class*="name"]`,
		Rating:    `[class*="rating"], [class*="star"]`,
		Content:   `[class*="content"], [class*="text"], [class*="body"]`,
		Date:      `[class*="date"]`,
		Verified:  `[class*="verified"]`,
	},
}

// registry holds the built-in per-platform rulesets. Platforms not
// listed here use genericRules for everything.
var registry = map[platform.Platform]Ruleset{
	platform.Amazon: {
		Title:       []string{"#productTitle", "#title"},
		Brand:       []string{"#bylineInfo", "a#bylineInfo"},
		Description: []string{"#feature-bullets ul", "#productDescription"},
		Price:       []string{"#priceblock_ourprice", "#priceblock_dealprice", ".a-price .a-offscreen", "#corePrice_feature_div .a-offscreen"},
		Shipping:    []string{"#delivery-message", "#deliveryBlockMessage", ".a-delivery-message"},
		Images:      []string{"#altImages img", "#imageBlock img", ".a-dynamic-image", "#landingImage"},
		Specs:       []string{"#productDetails_techSpec_section_1 tr", "#prodDetails tr", ".a-keyvalue tr"},
		Reviews: ReviewSelectors{
			Container: "#cm_cr-review_list",
			Item:      `[data-hook="review"]`,
			Author:    ".a-profile-name",
			Rating:    ".review-rating span",
			Content:   `[data-hook="review-body"] span`,
			Date:      `[data-hook="review-date"]`,
			Verified:  ".avp-badge",
		},
	},
	platform.AliExpress: {
		Title:       []string{`h1[data-pl="product-title"]`, ".product-title", "h1"},
		Brand:       []string{".store-name", `[class*="store-name"]`},
		Description: []string{".product-description", `[class*="description"]`},
		Price:       []string{".product-price-current", `[class*="price-current"]`, ".uniform-banner-box-price"},
		Shipping:    []string{`[class*="shipping"]`, `[class*="delivery"]`},
		Images:      []string{`[class*="slider"] img`, ".images-view img", `[class*="gallery"] img`},
		Specs:       []string{".product-specs tr", `[class*="specification"] tr`},
		Reviews: ReviewSelectors{
			Container: ".feedback-list",
			Item:      ".feedback-item",
			Author:    ".user-name",
			Rating:    ".star-view",
			Content:   ".buyer-feedback",
			Date:      ".feedback-time",
			Verified:  ".buyer-verified",
		},
	},
	platform.Cdiscount: {
		Title:       []string{".fpDesCol h1", ".fpTMain h1", `[itemprop="name"]`},
		Brand:       []string{".fpBrandName", `[itemprop="brand"]`},
		Description: []string{".fpDesc", `[itemprop="description"]`},
		Price:       []string{".fpPrice", ".priceContainer .price", `[itemprop="price"]`},
		Shipping:    []string{".fpDelivery", ".deliveryInfos"},
		Images:      []string{".fpImgLnk img", ".fpGalImg img", `[itemprop="image"]`},
		Specs:       []string{".fpDesc tr", ".fpSpecTbl tr"},
		Reviews: ReviewSelectors{
			Container: ".js-rv-list",
			Item:      ".rv-list__item",
			Author:    ".rv-author",
			Rating:    ".rv-rating",
			Content:   ".rv-text",
			Date:      ".rv-date",
			Verified:  ".verified",
		},
	},
	platform.EBay: {
		Title:       []string{"h1.x-item-title__mainTitle", `[data-testid="x-item-title"]`},
		Brand:       []string{`[data-testid="x-store-info"] a`},
		Description: []string{"#desc_wrapper", ".d-item-description"},
		Price:       []string{`[data-testid="x-price-primary"] .ux-textspans`, `[itemprop="price"]`},
		Images:      []string{".ux-image-carousel img", `[data-testid="ux-image-carousel"] img`},
	},
}

// rulesFor resolves the effective ruleset for a platform, merging in
// overrides and filling empty categories from the generic rules.
func rulesFor(p platform.Platform, overrides map[platform.Platform]Ruleset) Ruleset {
	rules, ok := registry[p]
	if o, found := overrides[p]; found {
		rules = mergeRulesets(rules, o)
		ok = true
	}
	if !ok {
		return genericRules
	}
	return mergeRulesets(genericRules, rules)
}

// mergeRulesets layers the non-empty categories of top over base.
func mergeRulesets(base, top Ruleset) Ruleset {
	merged := base
	if len(top.Title) > 0 {
		merged.Title = top.Title
	}
	if len(top.Brand) > 0 {
		merged.Brand = top.Brand
	}
	if len(top.Description) > 0 {
		merged.Description = top.Description
	}
	if len(top.Price) > 0 {
		merged.Price = top.Price
	}
	if len(top.Shipping) > 0 {
		merged.Shipping = top.Shipping
	}
	if len(top.Images) > 0 {
		merged.Images = top.Images
	}
	if len(top.Specs) > 0 {
		merged.Specs = top.Specs
	}
	if !top.Reviews.empty() {
		merged.Reviews = top.Reviews
	}
	return merged
}
