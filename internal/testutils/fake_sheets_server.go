// Package testutils provides a fake Sheets API backend for tests.
package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// FakeSheetsServer emulates the slice of the Sheets values API the gateway
// uses: single-range reads, batch reads, range updates, appends, row
// deletion and spreadsheet metadata. Fixtures are keyed by the exact range
// string a test expects the client to request.
type FakeSheetsServer struct {
	mu       sync.Mutex
	fixtures map[string][][]string
	tabs     map[string]int64

	failQueue   []int
	failByRange map[string][]int

	getCalls      map[string]int
	batchGetCalls int
	totalCalls    int

	updates map[string][][]string
	appends map[string][][]string
	deletes []DeleteCall

	server *httptest.Server
}

// DeleteCall records one deleteDimension request.
type DeleteCall struct {
	SheetID    int64
	StartIndex int64
	EndIndex   int64
}

func NewFakeSheetsServer() *FakeSheetsServer {
	s := &FakeSheetsServer{
		fixtures:    make(map[string][][]string),
		tabs:        make(map[string]int64),
		failByRange: make(map[string][]int),
		getCalls:    make(map[string]int),
		updates:     make(map[string][][]string),
		appends:     make(map[string][][]string),
	}

	r := chi.NewRouter()
	r.Get("/{spreadsheet}", s.handleMetadata)
	r.Post("/{spreadsheet}", s.handleBatchUpdate)
	r.Get("/{spreadsheet}/values:batchGet", s.handleBatchGet)
	r.Get("/{spreadsheet}/values/{range}", s.handleGet)
	r.Put("/{spreadsheet}/values/{range}", s.handleUpdate)
	r.Post("/{spreadsheet}/values/{range}", s.handleAppend)

	s.server = httptest.NewServer(r)
	return s
}

func (s *FakeSheetsServer) URL() string { return s.server.URL }
func (s *FakeSheetsServer) Close()      { s.server.Close() }

// SetRange installs the rows returned for one range.
func (s *FakeSheetsServer) SetRange(rangeName string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures[rangeName] = rows
}

// SetTab registers a tab title with its numeric sheet id for metadata
// lookups.
func (s *FakeSheetsServer) SetTab(title string, sheetID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs[title] = sheetID
}

// FailNext queues status codes that the next requests, in order, will
// respond with before normal handling resumes.
func (s *FakeSheetsServer) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failQueue = append(s.failQueue, statuses...)
}

// FailRange queues failures only for single-range reads of one range,
// leaving other traffic untouched.
func (s *FakeSheetsServer) FailRange(rangeName string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failByRange[rangeName] = append(s.failByRange[rangeName], statuses...)
}

func (s *FakeSheetsServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCalls
}

func (s *FakeSheetsServer) BatchGetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchGetCalls
}

func (s *FakeSheetsServer) GetCalls(rangeName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls[rangeName]
}

// LastUpdate returns the most recent values written to a range.
func (s *FakeSheetsServer) LastUpdate(rangeName string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates[rangeName]
}

// LastAppend returns the most recent rows appended to a range.
func (s *FakeSheetsServer) LastAppend(rangeName string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends[rangeName]
}

func (s *FakeSheetsServer) Deletes() []DeleteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeleteCall(nil), s.deletes...)
}

// intercept counts the request and pops any queued failure. It reports
// whether the request was consumed by an injected error.
func (s *FakeSheetsServer) intercept(w http.ResponseWriter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCalls++

	if len(s.failQueue) > 0 {
		status := s.failQueue[0]
		s.failQueue = s.failQueue[1:]
		http.Error(w, http.StatusText(status), status)
		return true
	}
	return false
}

type valueRangeBody struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

func (s *FakeSheetsServer) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}
	rangeName := chi.URLParam(r, "range")

	s.mu.Lock()
	s.getCalls[rangeName]++
	if queued := s.failByRange[rangeName]; len(queued) > 0 {
		status := queued[0]
		s.failByRange[rangeName] = queued[1:]
		s.mu.Unlock()
		http.Error(w, http.StatusText(status), status)
		return
	}
	rows := s.fixtures[rangeName]
	s.mu.Unlock()

	writeJSON(w, valueRangeBody{Range: rangeName, Values: rows})
}

func (s *FakeSheetsServer) handleBatchGet(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}

	ranges := r.URL.Query()["ranges"]

	s.mu.Lock()
	s.batchGetCalls++
	var out []valueRangeBody
	for _, name := range ranges {
		out = append(out, valueRangeBody{Range: name, Values: s.fixtures[name]})
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"valueRanges": out})
}

func (s *FakeSheetsServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}
	rangeName := chi.URLParam(r, "range")

	var body valueRangeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.updates[rangeName] = body.Values
	s.mu.Unlock()

	writeJSON(w, map[string]any{"updatedRange": rangeName})
}

// handleAppend serves POST values/{range}:append. The colon suffix rides
// inside the path segment chi captures.
func (s *FakeSheetsServer) handleAppend(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}
	rangeName := strings.TrimSuffix(chi.URLParam(r, "range"), ":append")

	var body valueRangeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.appends[rangeName] = append(s.appends[rangeName], body.Values...)
	s.mu.Unlock()

	writeJSON(w, map[string]any{"updates": map[string]any{"updatedRows": len(body.Values)}})
}

func (s *FakeSheetsServer) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(chi.URLParam(r, "spreadsheet"), ":batchUpdate") {
		http.NotFound(w, r)
		return
	}
	if s.intercept(w) {
		return
	}

	var body struct {
		Requests []struct {
			DeleteDimension *struct {
				Range struct {
					SheetID    int64 `json:"sheetId"`
					StartIndex int64 `json:"startIndex"`
					EndIndex   int64 `json:"endIndex"`
				} `json:"range"`
			} `json:"deleteDimension"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, req := range body.Requests {
		if req.DeleteDimension != nil {
			s.deletes = append(s.deletes, DeleteCall{
				SheetID:    req.DeleteDimension.Range.SheetID,
				StartIndex: req.DeleteDimension.Range.StartIndex,
				EndIndex:   req.DeleteDimension.Range.EndIndex,
			})
		}
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"replies": []any{}})
}

func (s *FakeSheetsServer) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w) {
		return
	}

	type properties struct {
		SheetID int64  `json:"sheetId"`
		Title   string `json:"title"`
	}
	type sheet struct {
		Properties properties `json:"properties"`
	}

	s.mu.Lock()
	var sheets []sheet
	for title, id := range s.tabs {
		sheets = append(sheets, sheet{Properties: properties{SheetID: id, Title: title}})
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"sheets": sheets})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
