package scanapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/decompose/internal/a2a"
	"github.com/dusk-indust/decompose/internal/scan"
)

// JSON-RPC method names for the async scan job API, named after
// internal/a2a's message/tasks vocabulary but scoped to scan jobs.
const (
	MethodStartScan  = "scan/start"
	MethodGetScan    = "scan/get"
	MethodListScans  = "scan/list"
	MethodCancelScan = "scan/cancel"
)

// StartScanParams is the scan/start JSON-RPC request payload, also
// accepted as the POST /jobs request body.
type StartScanParams struct {
	ProjectPath string   `json:"projectPath"`
	Languages   []string `json:"languages,omitempty"`
	ExcludeDirs []string `json:"excludeDirs,omitempty"`
	MaxFiles    int      `json:"maxFiles,omitempty"`
}

// JobService tracks scan jobs as a2a Tasks: one Task wraps one
// internal/scan.Scan invocation instead of one agent message exchange.
// submitted -> working -> completed/failed/canceled is the same
// lifecycle internal/a2a defines for agent tasks (spec.md §5).
type JobService struct {
	store *a2a.TaskStore
	hub   *hub

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewJobService returns a ready-to-use JobService.
func NewJobService() *JobService {
	return &JobService{
		store:   a2a.NewTaskStore(),
		hub:     newHub(),
		cancels: make(map[string]context.CancelFunc),
	}
}

// StartScan creates a job, stores it as submitted, and runs the scan in
// the background. It returns immediately with the freshly created task.
func (s *JobService) StartScan(params StartScanParams) (*a2a.Task, error) {
	if params.ProjectPath == "" {
		return nil, fmt.Errorf("projectPath is required")
	}

	id := uuid.NewString()
	task := a2a.Task{
		ID:        id,
		ContextID: id,
		Status:    a2a.TaskStatus{State: a2a.TaskStateSubmitted, Timestamp: time.Now()},
	}
	if err := s.store.Create(task); err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[id] = cancel
	s.mu.Unlock()

	// Snapshot the task before the job goroutine can move it to working.
	created, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	go s.run(jobCtx, id, params)

	return created, nil
}

// run executes the scan and drives the task through working to a
// terminal state, publishing every progress event and the final result
// over the job's hub for SSE subscribers.
func (s *JobService) run(ctx context.Context, id string, params StartScanParams) {
	defer func() {
		s.mu.Lock()
		delete(s.cancels, id)
		s.mu.Unlock()
	}()

	_ = s.store.Update(id, func(t *a2a.Task) {
		t.Status = a2a.TaskStatus{State: a2a.TaskStateWorking, Timestamp: time.Now()}
	})
	s.publishStatus(id)

	result, err := scan.Scan(ctx, params.ProjectPath, scan.Options{
		Languages:   params.Languages,
		ExcludeDirs: params.ExcludeDirs,
		MaxFiles:    params.MaxFiles,
		OnProgress: func(ev scan.Event) {
			s.publishProgress(id, ev)
		},
	})

	if ctx.Err() != nil {
		_ = s.store.Update(id, func(t *a2a.Task) {
			t.Status = a2a.TaskStatus{State: a2a.TaskStateCanceled, Timestamp: time.Now()}
		})
		s.publishStatus(id)
		return
	}

	if err != nil {
		msg := a2a.Message{Role: a2a.RoleAgent, Parts: []a2a.Part{a2a.TextPart(err.Error())}}
		_ = s.store.Update(id, func(t *a2a.Task) {
			t.Status = a2a.TaskStatus{State: a2a.TaskStateFailed, Message: &msg, Timestamp: time.Now()}
		})
		s.publishStatus(id)
		return
	}

	part, derr := a2a.DataPart(result)
	if derr != nil {
		part = a2a.TextPart(derr.Error())
	}
	artifact := a2a.Artifact{
		ArtifactID: uuid.NewString(),
		Name:       "dead-code-report",
		Parts:      []a2a.Part{part},
	}
	_ = s.store.Update(id, func(t *a2a.Task) {
		t.Artifacts = append(t.Artifacts, artifact)
		t.Status = a2a.TaskStatus{State: a2a.TaskStateCompleted, Timestamp: time.Now()}
	})
	s.publishStatus(id)
}

func (s *JobService) publishStatus(id string) {
	task, err := s.store.Get(id)
	if err != nil {
		return
	}
	s.hub.publish(id, a2a.StreamEvent{Task: task})
}

func (s *JobService) publishProgress(id string, ev scan.Event) {
	part, err := a2a.DataPart(ev)
	if err != nil {
		return
	}
	msg := a2a.Message{
		MessageID: uuid.NewString(),
		TaskID:    id,
		Role:      a2a.RoleAgent,
		Parts:     []a2a.Part{part},
	}
	s.hub.publish(id, a2a.StreamEvent{Message: &msg})
}

// GetScan returns the current state of a job.
func (s *JobService) GetScan(id string) (*a2a.Task, error) {
	return s.store.Get(id)
}

// ListScans returns jobs matching filter.
func (s *JobService) ListScans(filter a2a.ListTasksRequest) (*a2a.ListTasksResponse, error) {
	return s.store.List(filter)
}

// CancelScan stops a running job's context and marks it canceled if it
// has not already reached a terminal state.
func (s *JobService) CancelScan(id string) (*a2a.Task, error) {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()

	task, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if task.Status.State.IsTerminal() {
		return task, nil
	}
	if !ok {
		return nil, fmt.Errorf("job %q has no running context to cancel", id)
	}
	cancel()
	return s.store.Get(id)
}

// Subscribe registers a channel for every StreamEvent published for id.
// Call the returned func to unsubscribe and release the channel.
func (s *JobService) Subscribe(id string) (<-chan a2a.StreamEvent, func()) {
	return s.hub.subscribe(id)
}

// hub fans job progress and status events out to any number of SSE
// subscribers, generalizing internal/orchestrator.ProgressReporter's
// single-consumer buffered channel into a per-job multi-subscriber
// broadcast: a slow or absent subscriber drops events rather than
// blocking the scan goroutine.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan a2a.StreamEvent]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan a2a.StreamEvent]struct{})}
}

func (h *hub) publish(id string, ev a2a.StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) subscribe(id string) (<-chan a2a.StreamEvent, func()) {
	ch := make(chan a2a.StreamEvent, 64)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan a2a.StreamEvent]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		delete(h.subs[id], ch)
		if len(h.subs[id]) == 0 {
			delete(h.subs, id)
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, unsubscribe
}

// JobServer is the HTTP surface over a JobService: a JSON-RPC endpoint
// for start/get/list/cancel (grounded in internal/a2a/httpserver.go's
// dispatch pattern) plus a plain REST job-creation route and an SSE
// stream per job (grounded in internal/a2a/sse.go).
type JobServer struct {
	svc  *JobService
	http *http.Server
}

// NewJobServer wraps svc in an HTTP server ready to Start.
func NewJobServer(svc *JobService) *JobServer {
	return &JobServer{svc: svc}
}

// Start begins serving in a background goroutine and returns immediately.
func (s *JobServer) Start(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /jobs/{id}/events", s.handleJobEvents)
	mux.HandleFunc("POST /jobs/{id}/cancel", s.handleCancelJob)
	mux.HandleFunc("POST /", s.handleJSONRPC)

	s.http = &http.Server{Addr: addr, Handler: mux}
	go s.http.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *JobServer) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *JobServer) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var params StartScanParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := s.svc.StartScan(params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(task)
}

func (s *JobServer) handleGetJob(w http.ResponseWriter, r *http.Request) {
	task, err := s.svc.GetScan(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (s *JobServer) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	task, err := s.svc.CancelScan(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (s *JobServer) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ch, unsubscribe := s.svc.Subscribe(id)
	defer unsubscribe()

	sw := a2a.NewSSEWriter(w)
	sw.Init()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := sw.WriteEvent(ev); err != nil {
				return
			}
			if ev.Task != nil && ev.Task.Status.State.IsTerminal() {
				return
			}
		}
	}
}

func (s *JobServer) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req a2a.JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, nil, a2a.ErrCodeParse, "Parse error: "+err.Error())
		return
	}

	switch req.Method {
	case MethodStartScan:
		var params StartScanParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInvalidParams, err.Error())
			return
		}
		task, err := s.svc.StartScan(params)
		if err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInternal, err.Error())
			return
		}
		writeRPCResult(w, req.ID, task)

	case MethodGetScan:
		var params struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInvalidParams, err.Error())
			return
		}
		task, err := s.svc.GetScan(params.ID)
		if err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeTaskNotFound, err.Error())
			return
		}
		writeRPCResult(w, req.ID, task)

	case MethodListScans:
		var params a2a.ListTasksRequest
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInvalidParams, err.Error())
			return
		}
		resp, err := s.svc.ListScans(params)
		if err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInternal, err.Error())
			return
		}
		writeRPCResult(w, req.ID, resp)

	case MethodCancelScan:
		var params struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeInvalidParams, err.Error())
			return
		}
		task, err := s.svc.CancelScan(params.ID)
		if err != nil {
			writeRPCError(w, req.ID, a2a.ErrCodeTaskNotCancelable, err.Error())
			return
		}
		writeRPCResult(w, req.ID, task)

	default:
		writeRPCError(w, req.ID, a2a.ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func writeRPCResult(w http.ResponseWriter, id any, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeRPCError(w, id, a2a.ErrCodeInternal, "failed to marshal result: "+err.Error())
		return
	}
	json.NewEncoder(w).Encode(a2a.JSONRPCResponse{JSONRPC: a2a.JSONRPCVersion, ID: id, Result: data})
}

func writeRPCError(w http.ResponseWriter, id any, code int, message string) {
	json.NewEncoder(w).Encode(a2a.JSONRPCResponse{
		JSONRPC: a2a.JSONRPCVersion,
		ID:      id,
		Error:   &a2a.JSONRPCError{Code: code, Message: message},
	})
}
