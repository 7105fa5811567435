package httpserver

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/phenrril/balkon/internal/pdfgen"
	"github.com/phenrril/balkon/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	calc     *usecase.CalcUC
	products *usecase.ProductUC
	quotes   *usecase.QuoteUC
	jobs     *pdfgen.Jobs
	static   fs.FS
}

type Options struct {
	// MaxBodyBytes caps request bodies; 0 means 1 MiB.
	MaxBodyBytes int64
	// PDFRateLimit is requests per minute and client on /pdf/.
	PDFRateLimit int
	// TrustedProxies are IPs or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string
	// Static is served under /assets/ when set.
	Static fs.FS
}

func New(c *usecase.CalcUC, p *usecase.ProductUC, q *usecase.QuoteUC, jobs *pdfgen.Jobs, opts Options) http.Handler {
	s := &Server{mux: http.NewServeMux(), calc: c, products: p, quotes: q, jobs: jobs, static: opts.Static}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.PDFRateLimit <= 0 {
		opts.PDFRateLimit = 10
	}

	s.routes()
	return Chain(s.mux,
		Recovery,
		RequestID,
		Logging,
		SecurityHeaders,
		PublicRateLimit(map[string]int{
			"/pdf/":      opts.PDFRateLimit,
			"/api/calc/": 120,
		}, ParseProxies(opts.TrustedProxies)),
		BodyLimit(opts.MaxBodyBytes),
	)
}

func (s *Server) routes() {
	if s.static != nil {
		s.mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(s.static))))
	}
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/calc", s.apiCalc)
	s.mux.HandleFunc("/api/calc/options", s.apiCalcOptions)
	s.mux.HandleFunc("/api/calc/bom.xlsx", s.apiCalcBOM)
	s.mux.HandleFunc("/api/calc/outline.dxf", s.apiCalcOutline)

	s.mux.HandleFunc("/pdf/generate", s.pdfGenerate)
	s.mux.HandleFunc("/pdf/generate-and-email", s.pdfGenerateAndEmail)
	s.mux.HandleFunc("/pdf/generate-and-offer", s.pdfGenerateAndOffer)
	// POST /pdf/jobs · GET /pdf/jobs/{id} · GET /pdf/jobs/{id}/file · POST /pdf/jobs/{id}/email
	s.mux.HandleFunc("/pdf/jobs", s.pdfJobs)
	s.mux.HandleFunc("/pdf/jobs/", s.pdfJobByID)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductBySlug)
	s.mux.HandleFunc("/api/variants", s.apiVariantBySKU)
	s.mux.HandleFunc("/api/categories", s.apiCategories)
	s.mux.HandleFunc("/api/systems/", s.apiSystemProducts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"message": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeFile(w http.ResponseWriter, contentType, filename string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
