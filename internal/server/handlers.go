package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scatterbrainlabs/scatterbrain/models"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

func writeAPIJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses:
// 404 for a missing plan, 400 for caller problems, 500 otherwise.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var ee *types.EngineError
	if errors.As(err, &ee) {
		switch ee.Code {
		case types.CodePlanNotFound:
			status = http.StatusNotFound
		case types.CodeInvalidInput, types.CodeIndexOutOfRange,
			types.CodeLevelOutOfRange, types.CodeLeaseExhausted,
			types.CodeCapacityExhausted:
			status = http.StatusBadRequest
		}
	} else {
		ee = types.NewInternal(err.Error())
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "code", ee.Code, "error", ee.Message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ee)
}

func (s *Server) planID(w http.ResponseWriter, r *http.Request) (models.PlanID, bool) {
	id, err := models.ParsePlanID(r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, types.NewInvalidInput(err.Error()))
		return 0, false
	}
	return id, true
}

func (s *Server) pathIndex(w http.ResponseWriter, r *http.Request) (models.Index, bool) {
	idx, err := models.ParseIndex(r.PathValue("index"))
	if err != nil {
		s.writeEngineError(w, types.NewInvalidInput(err.Error()))
		return nil, false
	}
	return idx, true
}

func (s *Server) bodyIndex(w http.ResponseWriter, raw string) (models.Index, bool) {
	idx, err := models.ParseIndex(raw)
	if err != nil {
		s.writeEngineError(w, types.NewInvalidInput(err.Error()))
		return nil, false
	}
	return idx, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// handleListPlans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ids := s.registry.ListPlans()
	plans := make([]string, len(ids))
	for i, id := range ids {
		plans[i] = id.String()
	}
	writeAPIJSON(w, types.ListPlansResponse{Plans: plans})
}

// handleCreatePlan
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req types.CreatePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.registry.CreatePlan(req.Prompt, req.Notes)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeAPIJSON(w, types.CreatePlanResponse{ID: id.String()})
}

// handleDeletePlan
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	if err := s.registry.DeletePlan(id); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPlan
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.GetPlan(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleCurrent
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Current(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleContext
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.DistilledContext(id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleAddTask
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.AddTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.registry.AddTask(id, req.Description, req.Level, req.Notes)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleMove
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	idx, ok := s.bodyIndex(w, req.Index)
	if !ok {
		return
	}
	resp, err := s.registry.MoveTo(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleChangeLevel
func (s *Server) handleChangeLevel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.ChangeLevelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	idx, ok := s.bodyIndex(w, req.Index)
	if !ok {
		return
	}
	resp, err := s.registry.ChangeLevel(id, idx, req.Level)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleComplete
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.CompleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	idx, ok := s.bodyIndex(w, req.Index)
	if !ok {
		return
	}
	var lease *models.LeaseToken
	if req.Lease != nil {
		tok := models.LeaseToken(*req.Lease)
		lease = &tok
	}
	resp, err := s.registry.CompleteTask(id, idx, lease, req.Force, req.Summary)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleUncomplete
func (s *Server) handleUncomplete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.UncompleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	idx, ok := s.bodyIndex(w, req.Index)
	if !ok {
		return
	}
	resp, err := s.registry.UncompleteTask(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleLease
func (s *Server) handleLease(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	var req types.MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	idx, ok := s.bodyIndex(w, req.Index)
	if !ok {
		return
	}
	resp, err := s.registry.GenerateLease(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleRemoveTask
func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.RemoveTask(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleGetNotes
func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	notes, err := s.registry.GetTaskNotes(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, types.NotesView{Index: idx.String(), Notes: notes})
}

// handleSetNotes
func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	var req types.SetNotesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.registry.SetTaskNotes(id, idx, req.Notes)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}

// handleDeleteNotes
func (s *Server) handleDeleteNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.planID(w, r)
	if !ok {
		return
	}
	idx, ok := s.pathIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.DeleteTaskNotes(id, idx)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeAPIJSON(w, resp)
}
