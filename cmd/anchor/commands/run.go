package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sort"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"anchor/internal/adapters"
	"anchor/internal/company"
	"anchor/internal/domain"
	"anchor/internal/email"
	"anchor/internal/failure"
	baystore "anchor/internal/failure/store/bay"
	"anchor/internal/intake"
	slotstore "anchor/internal/intake/store/slot"
	"anchor/internal/movement"
	"anchor/internal/people"
	"anchor/internal/pipeline"
	"anchor/internal/platform/config"
	"anchor/internal/platform/httpserver"
	"anchor/internal/platform/logger"
	platformredis "anchor/internal/platform/redis"
	"anchor/internal/printer"
	"anchor/internal/similarity"
)

var (
	rowsPath      string
	companiesPath string
	peoplePath    string
	outputPath    string
	runWorkers    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a batch of slot rows",
	Long: `Run reads slot rows plus canonical company and person lists from CSV,
processes every row through the full stage sequence, and writes the
enriched rows back out. Rows that fail a gate are parked in failure
bays; inspect them with 'anchor bays'.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringVar(&rowsPath, "rows", "", "slot rows CSV (required)")
	runCmd.Flags().StringVar(&companiesPath, "companies", "", "canonical companies CSV")
	runCmd.Flags().StringVar(&peoplePath, "people", "", "canonical people CSV")
	runCmd.Flags().StringVar(&outputPath, "out", "", "write enriched rows to this CSV")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "concurrent rows (0 uses config)")
	_ = runCmd.MarkFlagRequired("rows")
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error())
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	rows, err := intake.ReadRowsFile(rowsPath)
	if err != nil {
		return printer.Error("Could not read slot rows", err.Error())
	}
	var companies []domain.CanonicalCompany
	if companiesPath != "" {
		if companies, err = intake.ReadCompaniesFile(companiesPath); err != nil {
			return printer.Error("Could not read companies", err.Error())
		}
	}
	var persons []domain.CanonicalPerson
	if peoplePath != "" {
		if persons, err = intake.ReadPeopleFile(peoplePath); err != nil {
			return printer.Error("Could not read people", err.Error())
		}
	}

	deps, err := openStores(ctx, cfg)
	if err != nil {
		return printer.Error("Could not open stores", err.Error())
	}
	defer deps.close()

	router, err := failure.NewRouter(deps.bays,
		failure.WithLogger(log),
		failure.WithDeadLetter(baystore.NewMemory()),
	)
	if err != nil {
		return printer.Error("Could not build failure router", err.Error())
	}

	sim := similarity.New(cfg.Similarity)
	invokerOpts := []adapters.InvokerOption{
		adapters.WithTimeout(cfg.AdapterTimeout),
		adapters.WithLogger(log),
	}
	if cfg.AdapterRateLimit > 0 {
		invokerOpts = append(invokerOpts, adapters.WithRateLimit(cfg.AdapterRateLimit))
	}
	invoker := adapters.NewInvoker(invokerOpts...)

	hub, err := company.NewHub(cfg.Company, sim, router,
		company.WithLogger(log), company.WithInvoker(invoker))
	if err != nil {
		return printer.Error("Could not build company hub", err.Error())
	}
	spoke, err := people.NewSpoke(cfg.People, sim, router,
		people.WithLogger(log), people.WithInvoker(invoker))
	if err != nil {
		return printer.Error("Could not build people spoke", err.Error())
	}
	generator, err := email.NewGenerator(cfg.Email, router,
		email.WithLogger(log), email.WithInvoker(invoker))
	if err != nil {
		return printer.Error("Could not build email generator", err.Error())
	}
	hasher, err := movement.New(cfg.Movement, sim)
	if err != nil {
		return printer.Error("Could not build movement engine", err.Error())
	}
	engine, err := pipeline.NewEngine(hub, spoke, generator, hasher, pipeline.WithLogger(log))
	if err != nil {
		return printer.Error("Could not build pipeline", err.Error())
	}

	if cfg.OpsAddr != "" {
		ops := httpserver.NewOpsHandler(deps.bays, log)
		srv := httpserver.New(cfg.OpsAddr, ops.Router())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("ops server", "error", err)
			}
		}()
		defer srv.Close()
		printer.Step("Ops server listening on %s\n", cfg.OpsAddr)
	}

	cat, err := buildCatalog(ctx, deps.rows, companies, persons)
	if err != nil {
		return printer.Error("Could not load row history", err.Error())
	}

	workers := runWorkers
	if workers == 0 {
		workers = cfg.Workers
	}
	printer.Step("Processing %d rows with %d workers\n", len(rows), workers)

	report, err := engine.RunBatch(ctx, rows, cat, workers)
	if err != nil {
		return printer.Error("Batch aborted", err.Error())
	}
	if err := router.Flush(ctx); err != nil {
		printer.Warning("could not flush parked failures: %v\n", err)
	}

	for _, row := range rows {
		if err := deps.rows.Save(ctx, row); err != nil {
			printer.Warning("could not persist row %s: %v\n", row.ID, err)
		}
	}
	if outputPath != "" {
		if err := intake.WriteRowsFile(outputPath, rows); err != nil {
			return printer.Error("Could not write output", err.Error())
		}
		printer.Step("Wrote enriched rows to %s\n", outputPath)
	}

	printReport(ctx, report, deps.bays)
	return nil
}

func printReport(ctx context.Context, report *pipeline.Report, bays failure.Store) {
	printer.Success("Processed %d rows in %s\n", report.Processed, report.Duration.Round(1e6))
	printer.Printf("  completed slots: %d\n", report.Completed)
	printer.Printf("  movement detected: %d\n", report.Moved)

	agents := make([]domain.AgentType, 0, len(report.ByAgent))
	for agent := range report.ByAgent {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	for _, agent := range agents {
		tally := report.ByAgent[agent]
		printer.Printf("  %-22s ok=%d failed=%d\n", agent, tally.Succeeded, tally.Failed)
	}

	names, err := bays.Bays(ctx)
	if err != nil || len(names) == 0 {
		return
	}
	printer.Println()
	printer.Warning("failure bays hold records:\n")
	for _, name := range names {
		count, err := bays.Count(ctx, name)
		if err != nil {
			continue
		}
		printer.Printf("  %-28s %d\n", name, count)
	}
}

// storeDeps bundles the bay and row stores with their owned connections.
type storeDeps struct {
	bays failure.Store
	rows intake.RowStore

	db    *sql.DB
	redis *platformredis.Client
}

func (d *storeDeps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}

// openStores picks the backing stores: Postgres when a DSN is configured,
// Redis for the bays when a URL is configured, in-memory otherwise.
func openStores(ctx context.Context, cfg config.Config) (*storeDeps, error) {
	deps := &storeDeps{
		bays: baystore.NewMemory(),
		rows: slotstore.NewMemory(),
	}

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		bayPG := baystore.NewPostgres(db)
		if err := bayPG.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate bay store: %w", err)
		}
		rowPG := slotstore.NewPostgres(db)
		if err := rowPG.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate row store: %w", err)
		}
		deps.db = db
		deps.bays = bayPG
		deps.rows = rowPG
		return deps, nil
	}

	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.redis = client
		deps.bays = baystore.NewRedis(client.Client)
	}
	return deps, nil
}

// buildCatalog assembles the reference data plus per-company filled slots
// and prior movement hashes from the row store.
func buildCatalog(ctx context.Context, rows intake.RowStore, companies []domain.CanonicalCompany, persons []domain.CanonicalPerson) (pipeline.Catalog, error) {
	cat := pipeline.Catalog{
		Companies:   companies,
		People:      persons,
		FilledSlots: make(map[domain.CompanyID]map[domain.SlotType]bool),
	}

	hashes, err := rows.PreviousHashes(ctx)
	if err != nil {
		return cat, err
	}
	cat.PreviousHashes = hashes

	stored, err := rows.List(ctx)
	if err != nil {
		return cat, err
	}
	for _, row := range stored {
		if !row.SlotComplete || row.CompanyID.IsNil() {
			continue
		}
		slots := cat.FilledSlots[row.CompanyID]
		if slots == nil {
			slots = make(map[domain.SlotType]bool)
			cat.FilledSlots[row.CompanyID] = slots
		}
		slots[row.SlotType] = true
	}
	return cat, nil
}
