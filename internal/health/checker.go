package health

import (
	"time"

	"github.com/royboker/portfolio-backend/internal/chat"
	"github.com/royboker/portfolio-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// Checker reports per-feature availability for the status endpoints. Nothing
// here can fail: a feature without credentials is "not_configured", the
// process itself is always healthy.
type Checker struct {
	cfg    *config.Config
	store  *chat.Store
	logger *logrus.Logger
}

func NewChecker(cfg *config.Config, store *chat.Store, logger *logrus.Logger) *Checker {
	return &Checker{
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
}

// Features maps each optional capability to its current state.
func (h *Checker) Features() map[string]string {
	features := map[string]string{
		"contact_mail":  "not_configured",
		"document_chat": "not_configured",
	}

	if h.cfg.Mail.Simulate {
		features["contact_mail"] = "simulated"
	} else if h.cfg.MailConfigured() {
		features["contact_mail"] = "configured"
	}

	if h.cfg.ValidateGemini() == nil {
		features["document_chat"] = "configured"
	}

	return features
}

func (h *Checker) ActiveSessions() int {
	if h.store == nil {
		return 0
	}
	return h.store.Len()
}

var startTime = time.Now()

func (h *Checker) Uptime() string {
	return time.Since(startTime).String()
}
