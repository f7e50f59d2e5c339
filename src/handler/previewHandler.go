package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"strategystudio/src/catalog"
	"strategystudio/src/model"
	"strategystudio/src/service"
)

type strategyGetter interface {
	Get(id string) (model.Strategy, error)
}

// PreviewStrategyHandler renders one of a strategy's rule trees as a
// human-readable expression. The category query selects the tree; scanner is
// the default.
func PreviewStrategyHandler(getter strategyGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		strat, err := getter.Get(chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				http.Error(w, "strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to get strategy for preview")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		category := catalog.Category(r.URL.Query().Get("category"))
		if category == "" {
			category = catalog.CategoryScanner
		}

		var tree model.RuleTree
		switch category {
		case catalog.CategoryScanner:
			tree = strat.ScannerRules
		case catalog.CategoryBuy:
			tree = strat.BuyRules
		case catalog.CategorySell:
			tree = strat.SellRules
		default:
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"category":   string(category),
			"expression": tree.Render(),
		})
	}
}

// CatalogHandler returns the full field table for a category: each field with
// its operators, value domain and input parameters. The editing surface uses
// it for progressive disclosure, operator and value inputs only appear after
// a field is chosen.
func CatalogHandler() http.HandlerFunc {
	type fieldEntry struct {
		catalog.Option
		Operators   []catalog.Option    `json:"operators"`
		ValueDomain []catalog.Option    `json:"valueDomain,omitempty"`
		Params      catalog.FieldParams `json:"params"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		category := catalog.Category(chi.URLParam(r, "category"))

		fields := catalog.FieldsFor(category)
		entries := make([]fieldEntry, 0, len(fields))
		for _, field := range fields {
			entries = append(entries, fieldEntry{
				Option:      field,
				Operators:   catalog.OperatorsFor(category, field.Value),
				ValueDomain: catalog.ValueDomainFor(field.Value),
				Params:      catalog.ParamsFor(field.Value),
			})
		}

		writeJSON(w, http.StatusOK, entries)
	}
}
