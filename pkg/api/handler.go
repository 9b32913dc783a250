// Package api provides the respkit demo service handlers. They are ordinary
// http.Handlers that reach for the response capability set when it is
// installed, which is how downstream services are expected to consume the
// wrapper layer.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/text/language"

	"github.com/respkit/respkit/pkg/response"
)

// Handler serves the respkit demo API
type Handler struct {
	startTime time.Time
}

// NewHandler creates a new API handler
func NewHandler() *Handler {
	return &Handler{startTime: time.Now()}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/greet", h.Greet).Methods("GET")
	r.HandleFunc("/echo", h.Echo).Methods("POST")
}

// HealthStatus is the payload served by the health endpoint
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Hostname      string  `json:"hostname,omitempty"`
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
	NumCPU        int     `json:"num_cpu"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
	MemTotalBytes uint64  `json:"mem_total_bytes,omitempty"`
	MemUsedBytes  uint64  `json:"mem_used_bytes,omitempty"`
}

// Health reports process and host status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		NumCPU:        runtime.NumCPU(),
	}

	// Host stats are best effort; the endpoint stays healthy without them
	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemTotalBytes = vm.Total
		status.MemUsedBytes = vm.Used
	}

	writeJSON(w, http.StatusOK, status)
}

// greetings by base language; the matcher picks the best fit for the
// request's Accept-Language header.
var (
	greetMatcher = language.NewMatcher([]language.Tag{
		language.English,
		language.Spanish,
		language.German,
		language.French,
	})
	greetings = map[language.Tag]string{
		language.English: "hello",
		language.Spanish: "hola",
		language.German:  "hallo",
		language.French:  "bonjour",
	}
)

// Greet writes a localized greeting through the response capability set:
// content type, charset and locale are set on the Response, the body goes
// through the text writer.
func (h *Handler) Greet(w http.ResponseWriter, r *http.Request) {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	tag, _, _ := greetMatcher.Match(tags...)
	base, _ := tag.Base()
	matched := language.Make(base.String())

	greeting, ok := greetings[matched]
	if !ok {
		greeting = greetings[language.English]
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "world"
	}

	rsp, ok := w.(response.Response)
	if !ok {
		// No buffered response installed; fall back to plain HTTP
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, greeting+", "+name+"\n")
		return
	}

	rsp.SetContentType("text/plain")
	rsp.SetLocale(matched)

	out, err := rsp.TextWriter()
	if err != nil {
		http.Error(w, "response writer unavailable", http.StatusInternalServerError)
		return
	}
	out.WriteString(greeting + ", " + name + "\n")
}

// Echo streams the request body back through the response's output stream,
// preserving the inbound content type.
func (h *Handler) Echo(w http.ResponseWriter, r *http.Request) {
	rsp, ok := w.(response.Response)
	if !ok {
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		io.Copy(w, r.Body)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		rsp.SetContentType(ct)
	}
	if r.ContentLength > 0 {
		rsp.SetContentLength64(r.ContentLength)
	}

	out, err := rsp.OutputStream()
	if err != nil {
		http.Error(w, "response stream unavailable", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(out, r.Body); err != nil {
		// Headers may already be on the wire; nothing sensible left to send
		return
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
