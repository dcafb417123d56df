// Package migrations содержит SQL миграции схемы, встроенные в бинарный файл.
package migrations

import "embed"

// Dir каталог миграций внутри FS.
const Dir = "sql"

// FS встроенные файлы миграций golang-migrate.
//
//go:embed sql/*.sql
var FS embed.FS
