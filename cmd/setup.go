package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
	"github.com/suderio/warband/internal/data"
	"github.com/suderio/warband/internal/engine"
	"github.com/suderio/warband/internal/logging"
	"github.com/suderio/warband/internal/rules"
	"github.com/suderio/warband/internal/scenario"
	"go.uber.org/zap"
)

func newLogger() (*zap.Logger, error) {
	return logging.New(viper.GetString("log_level"), viper.GetString("log_file"), viper.GetBool("log_json"))
}

func loadCatalog() (*data.Catalog, error) {
	var dirs []string
	if dir := viper.GetString("catalog_dir"); dir != "" {
		dirs = append(dirs, dir)
	}
	cat, err := data.NewLoader(dirs).LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load unit catalog: %w", err)
	}
	return cat, nil
}

// prepared is a scenario resolved against the catalog and configuration. Each
// call to params returns a fresh overworld so battles never share state.
type prepared struct {
	scenario *scenario.Scenario
	catalog  *data.Catalog
	formula  string
	log      *zap.Logger
}

func prepare(path string) (*prepared, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	formula := viper.GetString("payout_formula")
	if s.Payout != "" {
		formula = s.Payout
	}
	if _, err := payoutFor(formula, nil); err != nil {
		return nil, err
	}

	// catch unknown species and bad terrain before any battle starts
	if _, err := s.Params(cat); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return &prepared{scenario: s, catalog: cat, formula: formula, log: log}, nil
}

// params builds the start parameters of one battle. The payout formula rolls
// on the battle's own dice.
func (p *prepared) params(roller engine.Roller, delay int) (engine.StartParams, error) {
	params, err := p.scenario.Params(p.catalog)
	if err != nil {
		return params, fmt.Errorf("scenario %s: %w", p.scenario.Name, err)
	}
	payout, err := payoutFor(p.formula, roller)
	if err != nil {
		return params, err
	}
	params.Roller = roller
	params.Delay = engine.DelayForSetting(delay)
	params.Logger = p.log
	params.Payout = payout
	return params, nil
}

func payoutFor(formula string, roller engine.Roller) (engine.PayoutFunc, error) {
	reg, err := rules.NewRegistry(roller)
	if err != nil {
		return nil, err
	}
	payout, err := reg.Payout(formula)
	if err != nil {
		return nil, fmt.Errorf("invalid payout formula: %w", err)
	}
	return payout, nil
}

func rollerFor(seed int64) engine.Roller {
	if seed < 0 {
		return engine.CryptoRoller{}
	}
	return engine.NewSeededRoller(uint64(seed))
}

func fileMissing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
