package sources

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
)

//go:embed schema.sql
var postgresSchema string

// suggestionLimit caps each autocomplete group before merging.
const suggestionLimit = 10

// Postgres serves jobs and suggestions straight from a jobs table, for
// deployments without the REST backend.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a pgx pool and applies the schema.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres: DATABASE_URL is required")
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}
	slog.Info("postgres: connected", slog.String("host", config.ConnConfig.Host))
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() { p.pool.Close() }

const jobColumns = `id, COALESCE(slug, ''), title, company, COALESCE(company_id, ''), COALESCE(location, ''),
	COALESCE(description, ''), skills, COALESCE(category, ''), COALESCE(type, ''), is_remote,
	COALESCE(location_type, ''), COALESCE(experience_level, ''), experience, salary,
	COALESCE(posted_date, ''), COALESCE(application_deadline, '')`

// likePattern wraps s for a case-insensitive substring match, escaping LIKE metacharacters.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// buildJobsQuery renders the SELECT for the given filters.
func buildJobsQuery(f engine.ServerFilters) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Search != "" {
		p := arg(likePattern(f.Search))
		where = append(where, fmt.Sprintf(
			"(title ILIKE %[1]s OR company ILIKE %[1]s OR description ILIKE %[1]s OR array_to_string(skills, ' ') ILIKE %[1]s)", p))
	}
	if f.Location != "" {
		where = append(where, "location ILIKE "+arg(likePattern(f.Location)))
	}
	if f.Type != "" {
		where = append(where, "lower(type) = lower("+arg(f.Type)+")")
	}
	if f.Category != "" {
		where = append(where, "lower(category) = lower("+arg(f.Category)+")")
	}
	if f.IsRemote {
		where = append(where, "(is_remote OR lower(location_type) = 'remote' OR location ILIKE '%remote%' OR lower(type) = 'remote')")
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + jobColumns + " FROM jobs")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY posted_date DESC NULLS LAST, id")
	if f.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(f.Limit))
	}
	return sb.String(), args
}

// FetchJobs implements JobSource.
func (p *Postgres) FetchJobs(ctx context.Context, f engine.ServerFilters) ([]engine.JobRecord, error) {
	engine.IncrBackendFetches()
	query, args := buildJobsQuery(f)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch jobs: %w", err)
	}
	defer rows.Close()

	out := make([]engine.JobRecord, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch jobs: %w", err)
	}
	return Normalize(out), nil
}

func scanJob(rows pgx.Rows) (engine.JobRecord, error) {
	var (
		j              engine.JobRecord
		expRaw, salRaw []byte
	)
	if err := rows.Scan(&j.ID, &j.Slug, &j.Title, &j.Company, &j.CompanyID, &j.Location,
		&j.Description, &j.Skills, &j.Category, &j.Type, &j.IsRemote,
		&j.LocationType, &j.ExperienceLevel, &expRaw, &salRaw,
		&j.PostedDate, &j.ApplicationDeadline); err != nil {
		return j, err
	}
	if len(expRaw) > 0 {
		var e engine.Experience
		if err := json.Unmarshal(expRaw, &e); err != nil {
			return j, err
		}
		j.Experience = &e
	}
	if len(salRaw) > 0 {
		var s engine.Salary
		if err := json.Unmarshal(salRaw, &s); err != nil {
			return j, err
		}
		j.Salary = &s
	}
	return j, nil
}

const upsertJob = `INSERT INTO jobs (id, slug, title, company, company_id, location, description, skills,
	category, type, is_remote, location_type, experience_level, experience, salary, posted_date, application_deadline)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8,
	NULLIF($9, ''), NULLIF($10, ''), $11, NULLIF($12, ''), NULLIF($13, ''), $14, $15, NULLIF($16, ''), NULLIF($17, ''))
ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug, title = EXCLUDED.title, company = EXCLUDED.company,
	company_id = EXCLUDED.company_id, location = EXCLUDED.location, description = EXCLUDED.description,
	skills = EXCLUDED.skills, category = EXCLUDED.category, type = EXCLUDED.type,
	is_remote = EXCLUDED.is_remote, location_type = EXCLUDED.location_type,
	experience_level = EXCLUDED.experience_level, experience = EXCLUDED.experience,
	salary = EXCLUDED.salary, posted_date = EXCLUDED.posted_date,
	application_deadline = EXCLUDED.application_deadline, updated_at = now()`

// UpsertJobs stores jobs in one batch. Records without an id are skipped.
func (p *Postgres) UpsertJobs(ctx context.Context, jobs []engine.JobRecord) (int, error) {
	jobs = Normalize(jobs)
	batch := &pgx.Batch{}
	for _, j := range jobs {
		exp, err := jsonOrNil(j.Experience)
		if err != nil {
			return 0, fmt.Errorf("postgres: encode experience %s: %w", j.ID, err)
		}
		sal, err := jsonOrNil(j.Salary)
		if err != nil {
			return 0, fmt.Errorf("postgres: encode salary %s: %w", j.ID, err)
		}
		skills := j.Skills
		if skills == nil {
			skills = []string{}
		}
		batch.Queue(upsertJob, j.ID, j.Slug, j.Title, j.Company, j.CompanyID, j.Location, j.Description, skills,
			j.Category, j.Type, j.IsRemote, j.LocationType, j.ExperienceLevel, exp, sal, j.PostedDate, j.ApplicationDeadline)
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("postgres: upsert jobs: %w", err)
	}
	return batch.Len(), nil
}

func jsonOrNil[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// suggestionQueries are the four autocomplete lookups, one per group.
var suggestionQueries = struct {
	jobs, companies, locations, skills string
}{
	jobs:      `SELECT DISTINCT title FROM jobs WHERE title ILIKE $1 ORDER BY title LIMIT $2`,
	companies: `SELECT DISTINCT company FROM jobs WHERE company ILIKE $1 ORDER BY company LIMIT $2`,
	locations: `SELECT DISTINCT location FROM jobs WHERE location ILIKE $1 ORDER BY location LIMIT $2`,
	skills:    `SELECT DISTINCT s FROM jobs, unnest(skills) AS s WHERE s ILIKE $1 ORDER BY s LIMIT $2`,
}

// Autocomplete implements Suggester. The four groups are queried concurrently.
func (p *Postgres) Autocomplete(ctx context.Context, query string) (engine.Suggestions, error) {
	var s engine.Suggestions
	pattern := likePattern(query)

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range []struct {
		sql string
		dst *[]string
	}{
		{suggestionQueries.jobs, &s.Jobs},
		{suggestionQueries.companies, &s.Companies},
		{suggestionQueries.locations, &s.Locations},
		{suggestionQueries.skills, &s.Skills},
	} {
		g.Go(func() error {
			vals, err := p.column(gctx, q.sql, pattern)
			*q.dst = vals
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return engine.Suggestions{}, fmt.Errorf("postgres: autocomplete: %w", err)
	}
	return s, nil
}

// AutocompleteLocations implements Suggester.
func (p *Postgres) AutocompleteLocations(ctx context.Context, query string) ([]string, error) {
	vals, err := p.column(ctx, suggestionQueries.locations, likePattern(query))
	if err != nil {
		return nil, fmt.Errorf("postgres: autocomplete locations: %w", err)
	}
	return vals, nil
}

func (p *Postgres) column(ctx context.Context, sql, pattern string) ([]string, error) {
	rows, err := p.pool.Query(ctx, sql, pattern, suggestionLimit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
