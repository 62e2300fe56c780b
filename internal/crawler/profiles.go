package crawler

import (
	"time"

	"sjsage522/couponworker/internal/extract"
)

var nextPageLocators = []extract.Locator{
	extract.Attr(`a[aria-label="Next"]`, "href"),
	extract.Attr(".pagination .next", "href"),
	extract.Attr(`[data-testid*="next"]`, "href"),
	extract.Attr(`a:contains("Next")`, "href"),
	extract.Attr(`a:contains("More")`, "href"),
	extract.Attr(".next-page", "href"),
}

// BuiltinProfiles returns the site profiles shipped with the worker, keyed by name
func BuiltinProfiles() map[string]Profile {
	profiles := []Profile{couponsComProfile(), couponsProfile(), retailMeNotProfile()}

	byName := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}
	return byName
}

// couponsComProfile targets coupons.com with the broadest selector set
func couponsComProfile() Profile {
	return Profile{
		Name:           "coupons_com",
		AllowedDomains: []string{"coupons.com", "www.coupons.com"},
		StartURLs: []string{
			"https://www.coupons.com/",
			"https://www.coupons.com/coupon-codes/",
			"https://www.coupons.com/printable-coupons/",
			"https://www.coupons.com/deals/",
		},
		Containers: []string{
			`[data-testid*="coupon"]`,
			`[data-testid*="offer"]`,
			`[data-testid*="deal"]`,
			".coupon-card",
			".offer-card",
			".deal-card",
			".coupon-tile",
			".offer-tile",
			`[class*="card"][class*="coupon"]`,
			`[class*="card"][class*="offer"]`,
			`[class*="tile"][class*="coupon"]`,
			".coupon",
			".offer",
			".deal",
			`[class*="coupon"]`,
			`[class*="offer"]`,
		},
		FallbackContainers: `article, .item, [class*="card"], [class*="tile"]`,
		MaxFragments:       30,
		NextPage:           nextPageLocators,
		DownloadDelay:      3 * time.Second,
		Fields: extract.Fields{
			Title: extract.Texts(
				`[data-testid*="title"]`, `[data-testid*="headline"]`,
				".title", ".headline", ".offer-title", ".coupon-title", ".deal-title",
				"h1", "h2", "h3", "h4", "h5",
				".name", `[class*="title"]`, `[class*="headline"]`,
				"strong", "b",
			),
			Code: []extract.Locator{
				extract.Text(`[data-testid*="code"]`),
				extract.Text(".coupon-code"),
				extract.Text(".promo-code"),
				extract.Text(".discount-code"),
				extract.Text(".code"),
				extract.Attr("[data-clipboard-text]", "data-clipboard-text"),
				extract.Text("code"),
				extract.Text(`[class*="code"]`),
			},
			Description: extract.Texts(
				`[data-testid*="description"]`,
				".description", ".offer-description", ".coupon-description",
				".details", ".summary", "p",
				`[class*="description"]`, `[class*="detail"]`,
			),
			Store: extract.Texts(
				`[data-testid*="store"]`, `[data-testid*="brand"]`,
				".store-name", ".brand-name", ".merchant", ".retailer", ".store", ".brand",
				`[class*="store"]`, `[class*="brand"]`, `[class*="merchant"]`,
			),
			Expiry: []extract.Locator{
				extract.Text(`[data-testid*="expir"]`),
				extract.Text(".expiry"),
				extract.Text(".expires"),
				extract.Text(".expiration"),
				extract.Text(".valid-until"),
				extract.Text(`[class*="expir"]`),
				extract.Attr("[data-expiry]", "data-expiry"),
			},
			Terms: extract.Texts(
				".terms", ".conditions", ".restrictions", ".fine-print",
				`[class*="terms"]`, `[class*="condition"]`,
			),
			FallbackStore:  "Coupons.com",
			MinTitleLength: 5,
		},
	}
}

// couponsProfile is the generic coupon spider with explicit category lookups
func couponsProfile() Profile {
	return Profile{
		Name:           "coupons",
		AllowedDomains: []string{"coupons.com", "www.coupons.com", "retailmenot.com", "www.retailmenot.com"},
		StartURLs: []string{
			"https://www.coupons.com/",
			"https://www.coupons.com/coupon-codes/",
			"https://www.coupons.com/printable-coupons/",
		},
		Containers: []string{
			`[data-testid="coupon-card"]`,
			".coupon-card",
			".offer-card",
			".deal-card",
			".coupon-item",
			`[class*="coupon"]`,
			`[class*="offer"]`,
		},
		FallbackContainers: `[class*="card"], .item, [class*="tile"]`,
		MaxFragments:       25,
		NextPage:           nextPageLocators[:5],
		DownloadDelay:      3 * time.Second,
		Fields: extract.Fields{
			Title: extract.Texts(
				`[data-testid="coupon-title"]`, ".coupon-title", ".offer-title", ".title",
				"h1", "h2", "h3", "h4",
				".headline", `[class*="title"]`, "strong", "b",
			),
			Code: []extract.Locator{
				extract.Text(`[data-testid="coupon-code"]`),
				extract.Text(".coupon-code"),
				extract.Text(".promo-code"),
				extract.Text(".code"),
				extract.Attr("[data-clipboard-text]", "data-clipboard-text"),
				extract.Text(`[class*="code"]`),
				extract.Text("code"),
			},
			Description: extract.Texts(
				`[data-testid="coupon-description"]`, ".coupon-description", ".offer-description",
				".description", "p", ".details", `[class*="description"]`,
			),
			Store: extract.Texts(
				`[data-testid="store-name"]`, ".store-name", ".brand-name", ".merchant-name",
				".store", `[class*="store"]`, `[class*="brand"]`,
			),
			Expiry: []extract.Locator{
				extract.Text(`[data-testid="expiry-date"]`),
				extract.Text(".expiry-date"),
				extract.Text(".expires"),
				extract.Text(".expiration"),
				extract.Attr("[data-expiry]", "data-expiry"),
				extract.Text(`[class*="expir"]`),
			},
			Category: extract.Texts(`[data-testid="category"]`, ".category", `[class*="category"]`),
			Terms:    extract.Texts(".terms", ".conditions", ".fine-print", `[class*="terms"]`),

			FallbackStore: "coupons.com",
		},
	}
}

// retailMeNotProfile targets RetailMeNot offer cards
func retailMeNotProfile() Profile {
	return Profile{
		Name:           "retailmenot",
		AllowedDomains: []string{"retailmenot.com", "www.retailmenot.com"},
		StartURLs:      []string{"https://www.retailmenot.com/"},
		Containers: []string{
			".offer-card",
			".coupon-card",
			".deal-card",
			`[data-testid="offer-card"]`,
		},
		MaxFragments:  20,
		DownloadDelay: 3 * time.Second,
		Fields: extract.Fields{
			Title: extract.Texts(".offer-title", ".coupon-title", ".deal-title", "h3", "h2"),
			Code: []extract.Locator{
				extract.Text(".coupon-code"),
				extract.Text(".promo-code"),
				extract.Attr("[data-clipboard-text]", "data-clipboard-text"),
				extract.Text(".code"),
			},
			Description: extract.Texts(".offer-description", ".coupon-description", ".deal-description", "p"),
			Store:       extract.Texts(".store-name", ".brand-name", ".merchant-name"),
			Expiry: []extract.Locator{
				extract.Text(".expiry-date"),
				extract.Text(".expires"),
				extract.Attr("[data-expiry]", "data-expiry"),
			},

			FallbackStore: "RetailMeNot",
		},
	}
}
