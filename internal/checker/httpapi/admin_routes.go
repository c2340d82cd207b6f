package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	commonhttputil "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/httputil"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/lexicon"
)

func registerAdminRoutes(mux *http.ServeMux, deps Deps) {
	guard := func(next http.HandlerFunc) http.Handler {
		return RequireAPIKey(deps.AdminAPIKey, next)
	}

	mux.Handle("POST /api/admin/lexicon/reload", guard(func(w http.ResponseWriter, r *http.Request) {
		handleReload(w, r, deps)
	}))

	routes := 1
	if deps.Lexicon != nil {
		mux.Handle("GET /api/admin/lexicon", guard(func(w http.ResponseWriter, r *http.Request) {
			handleLexiconList(w, r, deps)
		}))
		mux.Handle("POST /api/admin/lexicon", guard(func(w http.ResponseWriter, r *http.Request) {
			handleLexiconUpsert(w, r, deps)
		}))
		mux.Handle("DELETE /api/admin/lexicon/{id}", guard(func(w http.ResponseWriter, r *http.Request) {
			handleLexiconDelete(w, r, deps)
		}))
		routes += 3
	}

	deps.Logger.Info("admin_api_registered", "routes", routes)
}

func handleReload(w http.ResponseWriter, r *http.Request, deps Deps) {
	snap, err := deps.Checker.Reload(r.Context())
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, ReloadResponse{Version: snap.Version, Generation: snap.Generation})
}

func handleLexiconList(w http.ResponseWriter, r *http.Request, deps Deps) {
	entries, err := deps.Lexicon.List(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	if entries == nil {
		entries = []lexicon.Entry{}
	}
	_ = commonhttputil.WriteJSON(w, http.StatusOK, LexiconListResponse{Entries: entries, Count: len(entries)})
}

func handleLexiconUpsert(w http.ResponseWriter, r *http.Request, deps Deps) {
	var entry lexicon.Entry
	if err := commonhttputil.ReadJSON(w, r, &entry, deps.bodyLimit()); err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}

	stored, err := deps.Lexicon.Upsert(r.Context(), entry)
	if err != nil {
		writeError(w, r, deps.Logger, err)
		return
	}
	deps.Logger.InfoContext(r.Context(), "lexicon_entry_upserted",
		"id", stored.ID, "language", stored.Language, "kind", stored.Kind, "term", stored.Term)
	_ = commonhttputil.WriteJSON(w, http.StatusCreated, stored)
}

func handleLexiconDelete(w http.ResponseWriter, r *http.Request, deps Deps) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, r, deps.Logger, cerrors.MalformedInputError{Message: "invalid lexicon entry id"})
		return
	}

	if err := deps.Lexicon.Delete(r.Context(), id); err != nil {
		if errors.Is(err, lexicon.ErrEntryNotFound) {
			_ = commonhttputil.WriteErrorJSON(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		writeError(w, r, deps.Logger, err)
		return
	}
	deps.Logger.InfoContext(r.Context(), "lexicon_entry_deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
