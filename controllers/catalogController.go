package controller

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/metrics"
)

// CatalogController reads the public product catalog from the WooCommerce
// REST API. Responses pass through verbatim; the consumer key and secret
// come from the environment and never reach the client.
type CatalogController struct {
	siteURL        string
	consumerKey    string
	consumerSecret string
	breaker        *gobreaker.CircuitBreaker
	client         *http.Client
}

func NewCatalogController(siteURL, consumerKey, consumerSecret string, breaker *gobreaker.CircuitBreaker) *CatalogController {
	return &CatalogController{
		siteURL:        siteURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		breaker:        breaker,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

// GetProducts implements GET /catalog/products.
func (cc *CatalogController) GetProducts(w http.ResponseWriter, r *http.Request) {
	target, err := url.Parse(cc.siteURL + "/wp-json/wc/v3/products")
	if err != nil {
		http.Error(w, `{"success": false, "message": "Catalog not configured"}`, http.StatusInternalServerError)
		return
	}

	// Pass the caller's query through, then attach the REST keys
	query := r.URL.Query()
	query.Set("consumer_key", cc.consumerKey)
	query.Set("consumer_secret", cc.consumerSecret)
	target.RawQuery = query.Encode()

	out, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Upstream request failed"}`, http.StatusInternalServerError)
		return
	}

	metrics.ProxyRequests.WithLabelValues("catalog", r.Method).Inc()

	result, err := cc.breaker.Execute(func() (interface{}, error) {
		return cc.client.Do(out)
	})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Upstream request failed"}`, http.StatusInternalServerError)
		return
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
