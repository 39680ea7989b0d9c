package internal_test

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/frahmantamala/expense-tracker/internal"
)

func defaultConfig() *internal.Config {
	v := viper.New()
	for key, value := range internal.Defaults() {
		v.SetDefault(key, value)
	}

	var cfg internal.Config
	Expect(v.Unmarshal(&cfg)).To(Succeed())
	return &cfg
}

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = defaultConfig()
	})

	It("should accept the defaults", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Server.Addr()).To(Equal("0.0.0.0:8000"))
		Expect(cfg.Database.ConnMaxLifetime).To(Equal(30 * time.Minute))
	})

	It("should reject an unknown driver", func() {
		cfg.Database.Driver = "oracle"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Config.Database.Driver failed on 'oneof'")))
	})

	It("should reject an endpoint without a leading slash", func() {
		cfg.Server.Endpoint = "mcp"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Endpoint")))
	})

	It("should reject more idle than open connections", func() {
		cfg.Database.MaxOpenConns = 1
		cfg.Database.MaxIdleConns = 2
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("should reject read timeouts shorter than the header timeout", func() {
		cfg.Server.ReadHeaderTimeout = 10 * time.Second
		cfg.Server.ReadTimeout = time.Second
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("read_timeout")))
	})

	It("should check the amqp url only when enabled", func() {
		cfg.Events.AMQP.URL = "http://broker"
		Expect(cfg.Validate()).To(Succeed())

		cfg.Events.AMQP.Enabled = true
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must be amqp or amqps")))
	})

	It("should require a proxy url", func() {
		cfg.Proxy.RemoteURL = "not a url"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("RemoteURL")))
	})

	Describe("ResolvePaths", func() {
		It("should anchor relative sqlite and category paths", func() {
			cfg.ResolvePaths("/opt/expense")
			Expect(cfg.Database.Source).To(Equal(filepath.Join("/opt/expense", "expenses.db")))
			Expect(cfg.Categories.Path).To(Equal(filepath.Join("/opt/expense", "categories.json")))
		})

		It("should leave absolute, in-memory and postgres sources alone", func() {
			Expect(internal.ResolvePath("/base", "/abs/x.db")).To(Equal("/abs/x.db"))
			Expect(internal.ResolvePath("/base", ":memory:")).To(Equal(":memory:"))
			Expect(internal.ResolvePath("/base", "file:x.db?mode=ro")).To(Equal("file:x.db?mode=ro"))

			cfg.Database.Driver = "postgres"
			cfg.Database.Source = "postgres://localhost/expenses"
			cfg.ResolvePaths("/base")
			Expect(cfg.Database.Source).To(Equal("postgres://localhost/expenses"))
		})
	})
})

var _ = Describe("AppError", func() {
	It("should match sentinels after a cause is attached", func() {
		err := internal.ErrExpenseNotFound.WithCause(filepath.ErrBadPattern)

		Expect(err).To(MatchError(internal.ErrExpenseNotFound))
		Expect(err).To(MatchError(filepath.ErrBadPattern))
		Expect(err).NotTo(MatchError(internal.ErrStorageFailure))
		Expect(internal.ErrExpenseNotFound.Cause).To(BeNil())
	})

	It("should expose the taxonomy through IsAppError", func() {
		appErr, ok := internal.IsAppError(internal.NewStorageError("failed to add expense", filepath.ErrBadPattern))
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeStorageFailure))
		Expect(appErr.Code).To(Equal(internal.ErrCodeStorageUnavailable))
		Expect(appErr.Error()).To(ContainSubstring("failed to add expense: "))
	})

	It("should hide the cause when serialised", func() {
		data, err := internal.NewReadError("failed to read categories", filepath.ErrBadPattern).MarshalJSON()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`{"type":"READ_FAILURE","code":"CATEGORIES_UNREADABLE","message":"failed to read categories"}`))
	})
})
