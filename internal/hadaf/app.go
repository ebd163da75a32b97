package hadaf

import (
	"github.com/hay-kot/hadaf/internal/core/config"
	"github.com/hay-kot/hadaf/internal/core/database"
	"github.com/hay-kot/hadaf/internal/core/env"
	"github.com/hay-kot/hadaf/internal/core/logging"
	"github.com/hay-kot/hadaf/internal/core/operation"
	"github.com/hay-kot/hadaf/internal/core/syntax"
	"github.com/hay-kot/hadaf/internal/store/jsonfile"
)

// App is the central entry point for all hadaf operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Handler   *Handler
	Documents *DocumentService

	Env        *env.Env
	Config     *config.Config
	Codec      *syntax.Codec
	Store      *jsonfile.DatabaseStore
	DB         *database.Database
	Operations *operation.Registry
}

// NewApp wires the document pipeline for cfg on top of e.
func NewApp(e *env.Env, cfg *config.Config) *App {
	codec := e.Codec()
	store := jsonfile.NewDatabaseStore(e.FS, cfg.DatabasePath())
	db := database.New(store, codec, logging.Component("database"))
	ops := operation.Builtin()
	handler := NewHandler(db, ops, codec, cfg.Separator, logging.Component("handler"))

	return &App{
		Handler:    handler,
		Documents:  NewDocumentService(e.FS, codec, handler, cfg.Files, logging.Component("documents")),
		Env:        e,
		Config:     cfg,
		Codec:      codec,
		Store:      store,
		DB:         db,
		Operations: ops,
	}
}

// NewWatcher creates a watcher over the documents under root, using the
// configured debounce.
func (a *App) NewWatcher(root string) (*Watcher, error) {
	return NewWatcher(root, a.Documents, a.Config.Watch.Debounce, logging.Component("watcher"))
}
