package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/usecase"
)

func (s *Server) apiCalcOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, s.calc.Options())
}

func (s *Server) apiCalc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.calc.Evaluate(in))
}

func (s *Server) apiCalcBOM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p := s.calc.Payload(in, calc.Meta{})
	b, err := usecase.BOMWorkbook(p)
	if err != nil {
		if errors.Is(err, calc.ErrInvalidPayload) {
			writeMessage(w, http.StatusUnprocessableEntity, p.BOM.Note)
			return
		}
		writeMessage(w, http.StatusInternalServerError, "could not export bill of materials")
		return
	}
	writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", p.Variant()+"-material.xlsx", b)
}

func (s *Server) apiCalcOutline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	p := s.calc.Payload(in, calc.Meta{})
	b, err := usecase.OutlineDXF(p)
	if err != nil {
		if errors.Is(err, usecase.ErrNoOutline) {
			msg := "Rozmery nie sú kompletné."
			if e := p.Calc; e.Area == nil && e.PerimeterRaw != nil {
				msg = "Najprv opravte rozmery."
			}
			writeMessage(w, http.StatusUnprocessableEntity, msg)
			return
		}
		writeMessage(w, http.StatusInternalServerError, "could not export outline")
		return
	}
	writeFile(w, "application/dxf", p.Variant()+"-obrys.dxf", b)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (calc.Input, bool) {
	var in calc.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid calculator input")
		return in, false
	}
	return in, true
}
