// internal/extract/variants_test.go
package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantsFromStructuredData(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"Product","name":"X","offers":[
	  {"sku":"SKU-A","price":"10.00","availability":"https://schema.org/InStock"},
	  {"price":"12.00","availability":"https://schema.org/OutOfStock"},
	  {"price":"14.00"}
	]}
	</script></head><body></body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	variants := e.extractVariants()

	require.Len(t, variants, 3)

	assert.Equal(t, "SKU-A", variants[0].SKU)
	assert.Equal(t, 10.0, variants[0].Price)
	assert.True(t, variants[0].Available)

	assert.Equal(t, "variant-1", variants[1].SKU, "missing sku gets a positional identifier")
	assert.False(t, variants[1].Available)

	assert.True(t, variants[2].Available, "availability defaults to true when unspecified")
}

func TestAmazonVariants_DimensionMap(t *testing.T) {
	html := `<html><body><script>
	var twisterData = { dimensionToAsinMap : {"0":"B00AAAAAA1","1":"B00AAAAAA2"}, other: 1 };
	</script></body></html>`

	e := newTestExtractor(t, html, "https://www.amazon.com/dp/B00AAAAAA1")
	variants := e.extractVariants()

	require.Len(t, variants, 2)
	skus := map[string]bool{variants[0].SKU: true, variants[1].SKU: true}
	assert.True(t, skus["B00AAAAAA1"])
	assert.True(t, skus["B00AAAAAA2"])
	for _, v := range variants {
		assert.True(t, v.Available)
	}
}

func TestAmazonVariants_TwisterDOMFallback(t *testing.T) {
	html := `<html><body><div id="twister"><div class="a-row">
	<ul>
	<li data-defaultasin="B00BBBBBB1" title="Size M"><img src="https://m.media-amazon.com/sw.jpg"></li>
	<li data-defaultasin="B00BBBBBB2" title="Size L" class="unavailable"></li>
	</ul>
	</div></div></body></html>`

	e := newTestExtractor(t, html, "https://www.amazon.com/dp/B00BBBBBB1")
	variants := e.extractVariants()

	require.Len(t, variants, 2)
	assert.Equal(t, "B00BBBBBB1", variants[0].SKU)
	assert.Equal(t, "Size M", variants[0].Title)
	assert.True(t, variants[0].Available)
	assert.NotEmpty(t, variants[0].Image)
	assert.False(t, variants[1].Available, "unavailable class marks the variant unavailable")
}

func TestAliExpressVariants_SKUPriceList(t *testing.T) {
	html := `<html><body><script>
	window.runParams = {"data":{"skuModule":{"skuPriceList":[
	  {"skuIdStr":"12345","skuVal":{"actSkuCalPrice":"19.99","availQuantity":4}},
	  {"skuId":67890,"skuVal":{"skuCalPrice":"24.99","availQuantity":0}}
	]}}};
	</script></body></html>`

	e := newTestExtractor(t, html, "https://fr.aliexpress.com/item/100500.html")
	variants := e.extractVariants()

	require.Len(t, variants, 2)

	assert.Equal(t, "12345", variants[0].SKU)
	assert.Equal(t, 19.99, variants[0].Price)
	require.NotNil(t, variants[0].Stock)
	assert.Equal(t, 4, *variants[0].Stock)
	assert.True(t, variants[0].Available)

	assert.Equal(t, "67890", variants[1].SKU)
	assert.Equal(t, 24.99, variants[1].Price)
	assert.False(t, variants[1].Available, "zero quantity means unavailable")
}

func TestShopifyVariants_InlineProductJSON(t *testing.T) {
	html := `<html><head><meta name="shopify-checkout-api-token" content="tok"></head><body><script>
	var meta = {"product":{"id":1,"variants":[
	  {"id":111,"sku":"TEE-S","name":"T-Shirt - S","price":1999,"available":true},
	  {"id":112,"name":"T-Shirt - M","price":"24.50","available":false}
	]}};
	</script></body></html>`

	e := newTestExtractor(t, html, "https://store.example.com/products/tee")
	variants := e.extractVariants()

	require.Len(t, variants, 2)

	assert.Equal(t, "TEE-S", variants[0].SKU)
	assert.Equal(t, 19.99, variants[0].Price, "integer cents are converted to a decimal amount")
	assert.True(t, variants[0].Available)

	assert.Equal(t, "112", variants[1].SKU, "variant id stands in for a missing sku")
	assert.Equal(t, 24.5, variants[1].Price)
	assert.False(t, variants[1].Available)
}

func TestShopifyVariants_LargeNumericID(t *testing.T) {
	html := `<html><head><meta name="shopify-checkout-api-token" content="tok"></head><body><script>
	var meta = {"product":{"id":7,"variants":[
	  {"id":44861245861,"name":"T-Shirt - L","price":1999,"available":true}
	]}};
	</script></body></html>`

	e := newTestExtractor(t, html, "https://store.example.com/products/tee")
	variants := e.extractVariants()

	require.Len(t, variants, 1)
	assert.Equal(t, "44861245861", variants[0].SKU,
		"real-world ids must not be rendered in scientific notation")
}

func TestAliExpressVariants_MissingSKUIdentifiers(t *testing.T) {
	html := `<html><body><script>
	window.runParams = {"data":{"skuModule":{"skuPriceList":[
	  {"skuId":3616461934390484,"skuVal":{"actSkuCalPrice":"9.99","availQuantity":2}},
	  {"skuVal":{"actSkuCalPrice":"11.99","availQuantity":1}}
	]}}};
	</script></body></html>`

	e := newTestExtractor(t, html, "https://fr.aliexpress.com/item/100500.html")
	variants := e.extractVariants()

	require.Len(t, variants, 2)
	assert.Equal(t, "3616461934390484", variants[0].SKU)
	assert.Equal(t, "variant-1", variants[1].SKU,
		"an entry with no id at all gets a positional identifier")
}

func TestGenericVariants_SelectControls(t *testing.T) {
	html := `<html><body>
	<select name="product-size">
	  <option value="">Choose</option>
	  <option value="s">Small</option>
	  <option value="m">Medium</option>
	  <option value="xl" disabled>XL</option>
	</select>
	</body></html>`

	e := newTestExtractor(t, html, "https://www.example.org/p")
	variants := e.extractVariants()

	require.Len(t, variants, 2)
	assert.Equal(t, "s", variants[0].SKU)
	assert.Equal(t, "Small", variants[0].Title)
	assert.Equal(t, "m", variants[1].SKU)
}

func TestVariants_MalformedScriptPayloadIsSkipped(t *testing.T) {
	html := `<html><body>
	<script>var x = { dimensionToAsinMap : {broken json} ;</script>
	<script>var y = { dimensionToAsinMap : {"0":"B00CCCCCC1"}, z: 0 };</script>
	</body></html>`

	e := newTestExtractor(t, html, "https://www.amazon.com/dp/B00CCCCCC1")
	variants := e.extractVariants()

	require.Len(t, variants, 1)
	assert.Equal(t, "B00CCCCCC1", variants[0].SKU)
}
