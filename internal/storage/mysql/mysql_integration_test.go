//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_insight/internal/domain"
	"review_insight/internal/loader"
	mysqlrepo "review_insight/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }
func pint(i int) *int       { return &i }
func pday(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndLoad(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	in := []domain.Review{
		{ID: 0, Text: "온천수가 정말 좋았어요", Rating: pint(5), Date: pday(2023, 6, 10), Source: pstr("naver")},
		{ID: 1, Title: "Meh", Text: "Water was dirty and staff rude", Rating: pint(1), Date: pday(2023, 1, 5)},
		{ID: 2, Text: "no date, no rating"},
	}
	if err := repo.UpsertReviews(ctx, 10001, in); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}
	// re-importing the same reviews must not duplicate them
	if err := repo.UpsertReviews(ctx, 10001, in); err != nil {
		t.Fatalf("UpsertReviews again: %v", err)
	}

	tbl, err := repo.PropertyReviews(ctx, 10001)
	if err != nil {
		t.Fatalf("PropertyReviews: %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(tbl.Rows))
	}

	ds, err := loader.Load(tbl, loader.Options{RatingScale: 5})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := ds.Reviews[0]
	if first.Title != "Meh" || first.Rating == nil || *first.Rating != 1 || first.Date == nil || !first.Date.Equal(*pday(2023, 1, 5)) {
		t.Fatalf("unexpected oldest review: %+v", first)
	}
	if s := ds.Reviews[1].Source; s == nil || *s != "naver" {
		t.Fatalf("source not kept: %+v", ds.Reviews[1])
	}
	if last := ds.Reviews[2]; last.Date != nil || last.Rating != nil {
		t.Fatalf("undated review should sort last with no rating: %+v", last)
	}
	if len(ds.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", ds.Warnings)
	}

	empty, err := repo.PropertyReviews(ctx, 42)
	if err != nil || len(empty.Rows) != 0 {
		t.Fatalf("unknown property: rows=%d err=%v", len(empty.Rows), err)
	}
}
