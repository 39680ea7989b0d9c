package cmd

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should fall back to defaults without config.yml", func() {
		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.App.Name).To(Equal("expense_tracker"))
		Expect(cfg.Server.Addr()).To(Equal("0.0.0.0:8000"))
		Expect(cfg.Server.Endpoint).To(Equal("/mcp"))
		Expect(cfg.Database.Driver).To(Equal("sqlite"))
		Expect(cfg.Database.BusyTimeout).To(Equal(5 * time.Second))
		Expect(cfg.Proxy.RemoteURL).To(Equal("https://smart-expense-tracker.fastmcp.app/mcp"))
		Expect(cfg.Events.AMQP.Enabled).To(BeFalse())
	})

	It("should anchor relative store paths to the executable directory", func() {
		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(filepath.IsAbs(cfg.Database.Source)).To(BeTrue())
		Expect(filepath.Base(cfg.Database.Source)).To(Equal("expenses.db"))
		Expect(filepath.Dir(cfg.Categories.Path)).To(Equal(filepath.Dir(cfg.Database.Source)))
	})

	It("should read config.yml", func() {
		yml := []byte("http_server:\n  port: 9000\ndatabase:\n  source: /var/lib/expenses/data.db\n")
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o644)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9000))
		Expect(cfg.Database.Source).To(Equal("/var/lib/expenses/data.db"))
	})

	It("should let the environment override the file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("http_server:\n  port: 9000\n"), 0o644)).To(Succeed())
		setenv("EXPENSE_HTTP_SERVER_PORT", "9300")

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9300))
	})

	It("should load variables from .env", func() {
		DeferCleanup(os.Unsetenv, "EXPENSE_OBSERVABILITY_LOGGING_LEVEL")
		Expect(os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSE_OBSERVABILITY_LOGGING_LEVEL=debug\n"), 0o644)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Observability.Logging.Level).To(Equal("debug"))
	})

	It("should reject invalid settings", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("database:\n  driver: oracle\n"), 0o644)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("Driver")))
	})

	It("should reject a malformed config file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("http_server: [\n"), 0o644)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})

var _ = Describe("sampleExpenses", func() {
	It("should produce dated records within the last month", func() {
		now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

		samples := sampleExpenses(now)

		Expect(samples).NotTo(BeEmpty())
		Expect(samples[0].Date).To(Equal("2024-03-31"))
		for _, s := range samples {
			Expect(s.Date >= "2024-03-01" && s.Date <= "2024-03-31").To(BeTrue(), s.Date)
			Expect(s.Category).NotTo(BeEmpty())
			Expect(s.Amount).To(BeNumerically(">", 0))
		}
	})
})

var _ = Describe("testEvent", func() {
	DescribeTable("should build the matching expense event",
		func(kind, eventType string) {
			event, err := testEvent(kind)
			Expect(err).NotTo(HaveOccurred())
			Expect(event.EventType()).To(Equal(eventType))
		},
		Entry("created", "created", events.EventTypeExpenseCreated),
		Entry("updated", "updated", events.EventTypeExpenseUpdated),
		Entry("deleted", "deleted", events.EventTypeExpenseDeleted),
	)

	It("should reject unknown kinds", func() {
		_, err := testEvent("approved")
		Expect(err).To(MatchError(ContainSubstring("unknown event kind")))
	})
})

var _ = Describe("rootCmd", func() {
	It("should register every subcommand", func() {
		names := []string{}
		for _, c := range rootCmd.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ContainElements("stdio", "server", "proxy", "migrate", "seed", "event"))
	})
})
