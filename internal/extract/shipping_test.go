// internal/extract/shipping_test.go
package extract

import (
	"testing"
)

func TestExtractShipping_FreeDelivery(t *testing.T) {
	html := `<html><body><div class="shipping-banner">Livraison offerte, 3-5 jours ouvrés</div></body></html>`
	e := newTestExtractor(t, html, "https://www.example.org/p")

	info := e.extractShipping()
	if !info.FreeShipping {
		t.Error("free shipping not detected")
	}
	if info.DeliveryTime != "3-5 jours" {
		t.Errorf("delivery time = %q, want \"3-5 jours\"", info.DeliveryTime)
	}
	if info.Cost == nil || *info.Cost != 0 {
		t.Error("free shipping should imply a zero cost")
	}
}

func TestExtractShipping_PaidDelivery(t *testing.T) {
	html := `<html><body><div class="delivery-note">Delivery in 2-4 days for 4.99</div></body></html>`
	e := newTestExtractor(t, html, "https://www.example.org/p")

	info := e.extractShipping()
	if info.FreeShipping {
		t.Error("free shipping wrongly detected")
	}
	if info.DeliveryTime != "2-4 days" {
		t.Errorf("delivery time = %q, want \"2-4 days\"", info.DeliveryTime)
	}
	if info.Cost != nil {
		t.Error("unknown shipping cost must stay unset")
	}
}

func TestExtractShipping_Absent(t *testing.T) {
	e := newTestExtractor(t, `<html><body><p>nothing here</p></body></html>`, "https://www.example.org/p")

	info := e.extractShipping()
	if info.Info != "" || info.FreeShipping || info.Cost != nil {
		t.Errorf("expected empty shipping info, got %+v", info)
	}
}
