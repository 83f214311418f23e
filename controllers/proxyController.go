package controller

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sony/gobreaker"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/metrics"
)

// ProxyController forwards staff-call requests to the CMS REST API. It keeps
// no state of its own: responses and status codes pass through verbatim, and
// the only local decisions are method dispatch, CORS headers and the missing
// id check on DELETE.
type ProxyController struct {
	baseURL  string
	user     string
	password string
	breaker  *gobreaker.CircuitBreaker
	client   *http.Client
}

func NewProxyController(baseURL, user, password string, breaker *gobreaker.CircuitBreaker) *ProxyController {
	return &ProxyController{
		baseURL:  baseURL,
		user:     user,
		password: password,
		breaker:  breaker,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// HandleCall implements POST /api/custom/v1/call and
// DELETE /api/custom/v1/call/{id}.
func (pc *ProxyController) HandleCall(w http.ResponseWriter, r *http.Request) {
	setProxyCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
		metrics.ProxyRequests.WithLabelValues("call", r.Method).Inc()
		pc.forward(w, r, pc.baseURL+"/wp-json/custom/v1/call")
		return
	case http.MethodDelete:
		id := mux.Vars(r)["id"]
		if id == "" {
			id = r.URL.Query().Get("id")
		}
		if id == "" {
			http.Error(w, `{"success": false, "message": "id is required"}`, http.StatusBadRequest)
			return
		}
		metrics.ProxyRequests.WithLabelValues("call", r.Method).Inc()
		pc.forward(w, r, pc.baseURL+"/wp-json/custom/v1/call/"+id)
		return
	default:
		http.Error(w, `{"success": false, "message": "Method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

// forward relays the request to the CMS and copies the response back
// unchanged. A transport failure with no upstream response yields 500.
func (pc *ProxyController) forward(w http.ResponseWriter, r *http.Request, targetURL string) {
	out, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, r.Body)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Upstream request failed"}`, http.StatusInternalServerError)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		out.Header.Set("Content-Type", ct)
	}
	out.SetBasicAuth(pc.user, pc.password)

	result, err := pc.breaker.Execute(func() (interface{}, error) {
		return pc.client.Do(out)
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

func setProxyCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}
