package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AntonStoeckl/dynamic-queries-go/testutil/sqlengine/config"
)

const (
	tenThousand = 10000
	million     = tenThousand * 100

	// DefaultNumBooks is used when no count is given as first argument.
	DefaultNumBooks = 1 * million

	// BatchSize is the number of rows sent per COPY.
	BatchSize = 50 * tenThousand

	// TableName is the catalog table the large-volume stream checks run against.
	TableName = "fluentquery_catalog"
)

var (
	authors = []string{"Le Guin", "Butler", "Lem", "Strugatsky", "Tiptree", "Delany", "Zelazny", "Jemisin"}
	genres  = []string{"science fiction", "fantasy", "essay", "poetry", "mystery"}
)

func main() {
	numBooks := DefaultNumBooks
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			panic(fmt.Sprintf("invalid number of books %q", os.Args[1]))
		}

		numBooks = n
	}

	if err := seedCatalog(context.Background(), numBooks); err != nil {
		panic(fmt.Sprintf("Error seeding catalog: %v\n", err))
	}
}

func seedCatalog(ctx context.Context, numBooks int) error {
	startTime := time.Now()

	settings, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := settings.PG.NewPGXPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	fmt.Printf("🚀 Seeding %d books into %s\n", numBooks, TableName)

	statements := []string{
		`DROP TABLE IF EXISTS ` + TableName,
		`CREATE TABLE ` + TableName + ` (
			id BIGINT PRIMARY KEY,
			isbn TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			genre TEXT NOT NULL,
			year BIGINT NOT NULL,
			pages BIGINT NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err = pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to prepare table: %w", err)
		}
	}

	columns := []string{"id", "isbn", "title", "author", "genre", "year", "pages"}

	for from := 1; from <= numBooks; from += BatchSize {
		to := min(from+BatchSize-1, numBooks)

		rows := make([][]any, 0, to-from+1)
		for id := from; id <= to; id++ {
			rows = append(rows, []any{
				int64(id),
				uuid.NewString(),
				fmt.Sprintf("title-%09d", id),
				authors[rand.IntN(len(authors))],
				genres[rand.IntN(len(genres))],
				int64(1950 + rand.IntN(75)),
				int64(80 + rand.IntN(900)),
			})
		}

		if _, err = pool.CopyFrom(ctx, pgx.Identifier{TableName}, columns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to copy rows %d..%d: %w", from, to, err)
		}

		fmt.Printf("  ✅ %d/%d\n", to, numBooks)
	}

	if _, err = pool.Exec(ctx, `CREATE INDEX ON `+TableName+` (author, year)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	fmt.Printf("🏁 Done in %s\n", time.Since(startTime).Round(time.Millisecond))

	return nil
}
