package shopify

import (
	"testing"

	"storesync-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare hostname", "acme.myshopify.com", "acme.myshopify.com"},
		{"full url", "https://acme.myshopify.com", "acme.myshopify.com"},
		{"url with path", "https://acme.myshopify.com/admin/orders", "acme.myshopify.com"},
		{"www prefix", "www.acme.myshopify.com", "acme.myshopify.com"},
		{"uppercase", "ACME.MYSHOPIFY.COM", "acme.myshopify.com"},
		{"admin console url", "admin.shopify.com/store/acme/orders", "acme.myshopify.com"},
		{"admin console url with scheme", "https://admin.shopify.com/store/acme", "acme.myshopify.com"},
		{"admin console url with uppercase slug", "admin.shopify.com/store/ACME/orders", "acme.myshopify.com"},
		{"surrounding whitespace", "  acme.myshopify.com  ", "acme.myshopify.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeShopDomain(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeShopDomainIsIdempotent(t *testing.T) {
	inputs := []string{
		"acme.myshopify.com",
		"https://acme.myshopify.com/admin",
		"admin.shopify.com/store/acme/orders",
		"admin.shopify.com/store/ACME/orders",
		"ACME.MYSHOPIFY.COM",
	}

	for _, input := range inputs {
		once, err := NormalizeShopDomain(input)
		require.NoError(t, err)
		twice, err := NormalizeShopDomain(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeShopDomainRejections(t *testing.T) {
	inputs := []string{
		"",
		"example.com",
		"https://shop.example.com",
		"admin.shopify.com",
		"admin.shopify.com/settings",
	}

	for _, input := range inputs {
		_, err := NormalizeShopDomain(input)
		require.Error(t, err, "input %q", input)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
}
