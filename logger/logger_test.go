package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("Logger", func() {
	var (
		log  *Logger
		logs *observer.ObservedLogs
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		log = &Logger{SugaredLogger: zap.New(core).Sugar()}
	})

	It("redacts credential-like keys", func() {
		log.Info("calling provider", "api_key", "sk-123", "Authorization", "Bearer x", "model", "gemini")

		entry := logs.All()[0]
		fields := entry.ContextMap()
		Expect(fields).To(HaveKeyWithValue("api_key", "[REDACTED]"))
		Expect(fields).To(HaveKeyWithValue("Authorization", "[REDACTED]"))
		Expect(fields).To(HaveKeyWithValue("model", "gemini"))
	})

	It("redacts fields bound with With", func() {
		log.With("access_token", "abc").Warn("retrying")
		Expect(logs.All()[0].ContextMap()).To(HaveKeyWithValue("access_token", "[REDACTED]"))
	})

	It("keeps levels", func() {
		log.Debug("d")
		log.Error("e")
		Expect(logs.FilterLevelExact(zapcore.DebugLevel).Len()).To(Equal(1))
		Expect(logs.FilterLevelExact(zapcore.ErrorLevel).Len()).To(Equal(1))
	})

	It("builds development and production loggers", func() {
		for _, mode := range []string{"development", "production"} {
			l, err := New(mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.SugaredLogger).NotTo(BeNil())
		}
		Nop().Info("discarded")
	})
})
