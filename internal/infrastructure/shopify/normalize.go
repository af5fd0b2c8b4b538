package shopify

import (
	"net/url"
	"strings"

	"storesync-core/internal/domain"
)

// NormalizeShopDomain canonicalizes a merchant-supplied shop identifier to
// a bare *.myshopify.com hostname. It accepts bare hostnames, full URLs and
// admin-console URLs (admin.shopify.com/store/<slug>/...), strips www., and
// rejects anything that does not resolve to a .myshopify.com host.
func NormalizeShopDomain(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.ValidationError("shop is required")
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return "", domain.ValidationError("invalid shop domain %q", trimmed)
	}

	host := strings.ToLower(u.Hostname())

	// admin.shopify.com/store/<slug>/... -> <slug>.myshopify.com
	if host == "admin.shopify.com" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, part := range parts {
			if part == "store" && i+1 < len(parts) && parts[i+1] != "" {
				return strings.ToLower(parts[i+1]) + ".myshopify.com", nil
			}
		}
		return "", domain.ValidationError("invalid shop domain %q", trimmed)
	}

	host = strings.TrimPrefix(host, "www.")
	if !strings.HasSuffix(host, ".myshopify.com") {
		return "", domain.ValidationError("shop domain must end in .myshopify.com, got %q", host)
	}

	return host, nil
}
