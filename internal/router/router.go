package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "pediatric-dosage/docs"
	jwtauth "pediatric-dosage/internal/adapters/auth/jwt"
	"pediatric-dosage/internal/adapters/reports/pdf"
	"pediatric-dosage/internal/adapters/reports/xlsx"
	mem "pediatric-dosage/internal/adapters/storage/memory"
	pg "pediatric-dosage/internal/adapters/storage/postgres"
	"pediatric-dosage/internal/adapters/storage/postgrest"
	"pediatric-dosage/internal/domain/admin"
	"pediatric-dosage/internal/domain/catalog"
	"pediatric-dosage/internal/domain/consultations"
	"pediatric-dosage/internal/middleware"
	"pediatric-dosage/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const defaultSnapshotTTL = 30 * time.Minute

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // nil => firmador efímero (tokens no sobreviven reinicios)
	Logger       *zap.Logger

	// Store: DB (Postgres) o REST (PostgREST). Si no viene ninguno, in-memory.
	DB   *sql.DB
	REST *postgrest.Client

	// Opcionales: si vienen nil se usan los defaults (memoria, PDF, XLSX).
	Snapshots   consultations.SnapshotStore
	SnapshotTTL time.Duration
	Report      consultations.ReportRenderer
	History     consultations.HistoryExporter
	Location    *time.Location

	// Si viene Username, se crea ese admin cuando no hay usuarios.
	BootstrapAdmin Credentials

	BcryptCost int // 0 = default de bcrypt
}

type Credentials struct {
	Username string
	Password string
}

type stores struct {
	catalog       catalog.Repository
	consultations consultations.Repository
	users         admin.UserRepository
	tables        admin.TableBrowser
}

func buildStores(opts Options) stores {
	switch {
	case opts.DB != nil:
		return stores{
			catalog:       pg.NewCatalogRepo(opts.DB),
			consultations: pg.NewConsultationsRepo(opts.DB),
			users:         pg.NewUsersRepo(opts.DB),
			tables:        pg.NewTablesRepo(opts.DB),
		}
	case opts.REST != nil:
		return stores{
			catalog:       postgrest.NewCatalogRepo(opts.REST),
			consultations: postgrest.NewConsultationsRepo(opts.REST),
			users:         postgrest.NewUsersRepo(opts.REST),
			tables:        postgrest.NewTablesRepo(opts.REST),
		}
	default:
		cat := mem.NewCatalogRepo(nil)
		cons := mem.NewConsultationRepo()
		users := mem.NewUserRepo()
		return stores{
			catalog:       cat,
			consultations: cons,
			users:         users,
			tables:        mem.NewTableBrowser(cat, cons, users),
		}
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	st := buildStores(opts)

	snapshots := opts.Snapshots
	if snapshots == nil {
		ttl := opts.SnapshotTTL
		if ttl <= 0 {
			ttl = defaultSnapshotTTL
		}
		snapshots = mem.NewSnapshotStore(ttl)
	}
	report := opts.Report
	if report == nil {
		report = pdf.NewRenderer(opts.Location)
	}
	history := opts.History
	if history == nil {
		history = xlsx.NewHistoryExporter(opts.Location)
	}
	issuer := opts.TokenIssuer
	if issuer == nil {
		issuer = jwtauth.NewSigner(jwtauth.Config{Secret: uuid.NewString()})
	}

	// Services por módulo
	catalogSvc := catalog.NewService(st.catalog)
	consultationsSvc := consultations.NewService(consultations.Deps{
		Catalog:   catalogSvc,
		Snapshots: snapshots,
		Repo:      st.consultations,
		Report:    report,
		History:   history,
		Logger:    log,
	})
	adminOpts := []admin.Option{admin.WithLogger(log)}
	if opts.BcryptCost > 0 {
		adminOpts = append(adminOpts, admin.WithBcryptCost(opts.BcryptCost))
	}
	adminSvc := admin.NewService(st.users, st.tables, issuer, adminOpts...)

	if opts.BootstrapAdmin.Username != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := adminSvc.EnsureAdmin(ctx, opts.BootstrapAdmin.Username, opts.BootstrapAdmin.Password); err != nil {
			log.Error("bootstrap admin failed", zap.Error(err))
		}
		cancel()
	}

	// Rutas por módulo
	catalog.RegisterRoutes(r, catalogSvc)
	consultations.RegisterRoutes(r, consultationsSvc)
	admin.RegisterRoutes(r, adminSvc)

	return r
}
