package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai_site_pipeline/assistant"
	"ai_site_pipeline/generator"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/render"
	"ai_site_pipeline/site"
)

const (
	defaultTimeout = 60 * time.Second
	// sessionTTL is how long a session may sit idle before it is evicted.
	sessionTTL = 2 * time.Hour
)

type Server struct {
	llm      provider.LLMClient
	content  *generator.ContentGenerator
	improver *generator.ContentImprover
	sites    *generator.SiteGenerator
	store    *sessionStore
	timeout  time.Duration
	log      logrus.FieldLogger
}

// session 是一次编辑会话：助手和调用方持有的 site 副本。
// mu serializes messages so the assistant never sees concurrent calls.
type session struct {
	mu        sync.Mutex
	id        string
	assistant *assistant.Assistant
	site      site.Site
	// lastUsed is guarded by sessionStore.mu.
	lastUsed time.Time
}

// sessionStore 只在内存中保存会话；空闲超过 ttl 的会话在下次创建时清理。
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func newStore(ttl time.Duration) *sessionStore {
	return &sessionStore{sessions: make(map[string]*session), ttl: ttl, now: time.Now}
}

func (s *sessionStore) set(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, old := range s.sessions {
		if s.expired(old, now) {
			delete(s.sessions, id)
		}
	}
	sess.lastUsed = now
	s.sessions[sess.id] = sess
}

// get returns a live session and refreshes its idle clock.
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastUsed = now
	return sess, true
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastUsed) > s.ttl
}

// New builds the HTTP surface over llm. timeout bounds each request's provider work; <= 0 means 60s.
func New(llm provider.LLMClient, timeout time.Duration, logger logrus.FieldLogger) (*Server, error) {
	if llm == nil {
		return nil, errors.New("llm client required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	content, err := generator.NewContentGenerator(llm, logger)
	if err != nil {
		return nil, err
	}
	improver, err := generator.NewContentImprover(llm, logger)
	if err != nil {
		return nil, err
	}
	sites, err := generator.NewSiteGenerator(llm, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		llm:      llm,
		content:  content,
		improver: improver,
		sites:    sites,
		store:    newStore(sessionTTL),
		timeout:  timeout,
		log:      logger.WithField("component", "server"),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleSessionCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.withSession(s.handleSessionGet))
	mux.HandleFunc("POST /api/sessions/{id}/messages", s.withSession(s.handleMessage))
	mux.HandleFunc("DELETE /api/sessions/{id}/history", s.withSession(s.handleReset))
	mux.HandleFunc("GET /api/sessions/{id}/preview", s.withSession(s.handlePreview))

	mux.HandleFunc("POST /api/content/generate", s.handleContentGenerate)
	mux.HandleFunc("POST /api/content/improve", s.handleContentImprove)
	mux.HandleFunc("POST /api/content/variations", s.handleVariations)
	mux.HandleFunc("POST /api/content/seo", s.handleOptimizeSEO)
	mux.HandleFunc("POST /api/content/meta", s.handleMetaDescription)

	mux.HandleFunc("POST /api/sites/generate", siteStep(s, s.sites.GenerateSite))
	mux.HandleFunc("POST /api/sites/template", siteStep(s, s.sites.SuggestTemplate))
	mux.HandleFunc("POST /api/sites/theme", siteStep(s, s.sites.GenerateTheme))
	mux.HandleFunc("POST /api/sites/sections", siteStep(s, s.sites.GenerateSections))
	mux.HandleFunc("POST /api/sites/seo", siteStep(s, s.sites.GenerateSEO))
	return s.logMiddleware(mux)
}

// --- Sessions ---

type sessionCreateReq struct {
	Site        site.Site              `json:"site"`
	Preferences *assistant.Preferences `json:"preferences,omitempty"`
}

type sessionResp struct {
	SessionID string                  `json:"session_id"`
	Site      site.Site               `json:"site"`
	History   []site.ConversationTurn `json:"history"`
}

type messageReq struct {
	Text string `json:"text"`
}

type messageResp struct {
	Turn site.ConversationTurn `json:"turn"`
	Site site.Site             `json:"site"`
}

// handleSessionCreate also sweeps sessions idle for longer than sessionTTL.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionCreateReq
	if !decode(w, r, &req) {
		return
	}
	a, err := assistant.New(s.llm, req.Site, s.log)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if req.Preferences != nil {
		a.UpdateContext(assistant.ContextUpdate{Preferences: req.Preferences})
	}
	sess := &session{id: uuid.NewString(), assistant: a, site: req.Site.Clone()}
	s.store.set(sess)
	s.log.WithField("session", sess.id).Info("session created")
	writeJSONStatus(w, http.StatusCreated, sessionResp{SessionID: sess.id, Site: sess.site, History: a.History()})
}

func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, *session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.store.get(r.PathValue("id"))
		if !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		h(w, r, sess)
	}
}

func (s *Server) handleSessionGet(w http.ResponseWriter, _ *http.Request, sess *session) {
	writeJSON(w, sessionResp{SessionID: sess.id, Site: sess.site, History: sess.assistant.History()})
}

// handleMessage applies the returned action to the session's site and hands the new snapshot back to the assistant.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request, sess *session) {
	var req messageReq
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	turn, err := sess.assistant.ProcessMessage(ctx, req.Text)
	if err != nil {
		s.fail(w, err, logrus.Fields{"session": sess.id})
		return
	}
	if turn.Action != nil {
		next, err := site.Apply(sess.site, *turn.Action)
		if err != nil {
			s.fail(w, err, logrus.Fields{"session": sess.id, "action": turn.Action.Type})
			return
		}
		sess.site = next
		sess.assistant.UpdateContext(assistant.ContextUpdate{Site: &next})
	}
	writeJSON(w, messageResp{Turn: turn, Site: sess.site})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request, sess *session) {
	sess.assistant.ResetConversation()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request, sess *session) {
	doc, err := render.Site(sess.site)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

// --- Content ---

type variationsReq struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
	Tone  string `json:"tone,omitempty"`
}

type seoReq struct {
	Text         string `json:"text"`
	Keyword      string `json:"keyword"`
	TargetLength int    `json:"targetLength,omitempty"`
}

type metaReq struct {
	PageContent string `json:"pageContent"`
	Keyword     string `json:"keyword,omitempty"`
}

func (s *Server) handleContentGenerate(w http.ResponseWriter, r *http.Request) {
	var req generator.ContentRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SectionType) == "" {
		http.Error(w, "sectionType is required", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	c, err := s.content.Generate(ctx, req)
	if err != nil {
		s.fail(w, err, logrus.Fields{"section_type": req.SectionType})
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleContentImprove(w http.ResponseWriter, r *http.Request) {
	var req generator.ImprovementRequest
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.improver.Improve(ctx, req)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	var req variationsReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	out, err := s.improver.GenerateVariations(ctx, req.Text, req.Count, req.Tone)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeJSON(w, map[string][]string{"variations": out})
}

func (s *Server) handleOptimizeSEO(w http.ResponseWriter, r *http.Request) {
	var req seoReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	out, err := s.improver.OptimizeForSEO(ctx, req.Text, req.Keyword, req.TargetLength)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeJSON(w, map[string]string{"text": out})
}

func (s *Server) handleMetaDescription(w http.ResponseWriter, r *http.Request) {
	var req metaReq
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	out, err := s.improver.GenerateMetaDescription(ctx, req.PageContent, req.Keyword)
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	writeJSON(w, map[string]string{"metaDescription": out})
}

// --- Sites ---

func siteStep[T any](s *Server, step func(context.Context, generator.SiteInput) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in generator.SiteInput
		if !decode(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.BusinessName) == "" {
			http.Error(w, "businessName is required", http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		out, err := step(ctx, in)
		if err != nil {
			s.fail(w, err, logrus.Fields{"business": in.BusinessName})
			return
		}
		writeJSON(w, out)
	}
}

// --- Helpers ---

// statusFor maps pipeline errors to HTTP codes. Provider and contract failures are 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrSectionNotFound), errors.Is(err, site.ErrTargetNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(w http.ResponseWriter, err error, fields logrus.Fields) {
	code := statusFor(err)
	s.log.WithFields(fields).WithError(err).WithField("status", code).Warn("request failed")
	http.Error(w, err.Error(), code)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("http request")
	})
}
