package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

func (s *Server) handleMessageTypes(w http.ResponseWriter, r *http.Request) {
	types := []string{}
	if s.catalog != nil {
		types = append(types, s.catalog.MessageTypes()...)
	}
	respondJSON(w, http.StatusOK, map[string]any{"messageTypes": types})
}

// handleInformationItems lists the information-item tables of a message
// type, optionally narrowed by ?tableType=.
func (s *Server) handleInformationItems(w http.ResponseWriter, r *http.Request) {
	mt := chi.URLParam(r, "messageType")
	tableType := models.TableType(r.URL.Query().Get("tableType"))

	var tables []models.InformationItemTable
	if s.catalog != nil {
		for _, t := range s.catalog.InformationItems(mt) {
			if tableType == "" || t.TableType == tableType {
				tables = append(tables, t)
			}
		}
	}
	if len(tables) == 0 {
		respondErrorJSON(w, http.StatusNotFound, "information items not found for message type: "+mt, "NOT_FOUND")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messageType": mt, "tables": tables, "total": len(tables)})
}

func (s *Server) handleCodeDefinitions(w http.ResponseWriter, r *http.Request) {
	codeType := chi.URLParam(r, "codeType")
	var defs []models.CodeDefinition
	if s.catalog != nil {
		defs = s.catalog.CodeDefinitions(codeType)
	}
	if len(defs) == 0 {
		respondErrorJSON(w, http.StatusNotFound, "code definitions not found: "+codeType, "NOT_FOUND")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"codeType": codeType, "definitions": defs})
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	codeType, code := chi.URLParam(r, "codeType"), chi.URLParam(r, "code")
	if s.catalog != nil {
		if v, ok := s.catalog.FindCode(codeType, code); ok {
			respondJSON(w, http.StatusOK, v)
			return
		}
	}
	respondErrorJSON(w, http.StatusNotFound, "code not found: "+codeType+"/"+code, "NOT_FOUND")
}
