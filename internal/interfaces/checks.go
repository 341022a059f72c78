package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/kkpan11/logseq/internal/adapters"
	"github.com/kkpan11/logseq/internal/audit"
	"github.com/kkpan11/logseq/internal/database"
	"github.com/kkpan11/logseq/internal/database/imports"
	http_controllers "github.com/kkpan11/logseq/internal/http"
	"github.com/kkpan11/logseq/internal/importer"
	"github.com/kkpan11/logseq/internal/tasks"
)

// =============================================================================
// Format Adapters
// =============================================================================

var _ adapters.Adapter = (*adapters.EDNAdapter)(nil)
var _ adapters.Adapter = (*adapters.JSONAdapter)(nil)
var _ adapters.Adapter = (*adapters.OPMLAdapter)(nil)

// =============================================================================
// Graph Store
// =============================================================================

var _ importer.GraphStore = (*database.Database)(nil)
var _ importer.StubRegistrar = (*database.Database)(nil)
var _ importer.RefStore = (*database.Database)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importer.PageMaterializer = (*importer.Materializer)(nil)
var _ importer.BatchResolver = (*importer.Resolver)(nil)
var _ importer.ProgressReporter = (*imports.Repository)(nil)
var _ importer.Auditor = (*audit.Auditor)(nil)

// =============================================================================
// Background Maintenance
// =============================================================================

var _ tasks.ImportRunCleaner = (*imports.Repository)(nil)
var _ tasks.ReferenceResolver = (*importer.Resolver)(nil)
var _ http_controllers.TaskQueue = (*tasks.Client)(nil)
