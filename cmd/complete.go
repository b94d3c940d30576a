package cmd

import (
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"go.uber.org/zap"
)

// Complete runs shell completion when the shell asks for it, and returns
// otherwise. Running the program with COMP_INSTALL=1 installs the completion
// in the user's shell, COMP_UNINSTALL=1 removes it.
//
// Symbols offered to remove are read from the portfolio file of the
// configuration (state.file or PTK_STATE_FILE). Flags on the command line being
// completed, -portfolio-file included, are not parsed at completion time.
func Complete(name string) {
	completionCommand().Complete(name)
}

func completionCommand() *complete.Command {
	raw := map[string]complete.Predictor{"raw": predict.Nothing}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":         predict.Files("*"),
			"portfolio-file": predict.Files("*.json"),
			"v":              predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"add": {
				Flags: map[string]complete.Predictor{
					"s": predict.Something,
					"n": predict.Something,
				},
			},
			"remove":   {Args: complete.PredictFunc(predictSymbols)},
			"holdings": {Flags: raw},
			"show":     {Flags: raw},
			"watch": {
				Flags: map[string]complete.Predictor{
					"i":   predict.Set{"30s", "1m", "5m", "15m"},
					"raw": predict.Nothing,
				},
			},
			"serve": {Flags: map[string]complete.Predictor{"addr": predict.Something}},
		},
	}
}

// predictSymbols predicts the symbols held in the portfolio file.
func predictSymbols(prefix string) []string {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil
	}
	store := folio.NewStore(cfg.State.File, zap.NewNop())
	store.Load()

	var symbols []string
	for _, sym := range store.Symbols() {
		if strings.HasPrefix(sym, strings.ToUpper(prefix)) {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}
