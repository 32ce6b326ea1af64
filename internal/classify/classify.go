// Package classify maps raw tabular invoice rows into the line-item
// taxonomy using keyword, unit and sign heuristics.
package classify

import (
	"regexp"
	"strings"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// Config bounds plausible row values. Rows beyond the ceilings are kept
// but flagged, never silently dropped.
type Config struct {
	MaxTariffPerKWh float64 // default 10
	MaxQuantityKWh  float64 // default 100000
}

// DefaultConfig returns the sanity ceilings used when none are configured.
func DefaultConfig() Config {
	return Config{MaxTariffPerKWh: 10, MaxQuantityKWh: 100_000}
}

// rowPattern matches the generic billed-item row shape: description, unit
// token, then 3 to 8 numeric columns (quantity, unit price, gross value,
// tax components, net tariff).
var rowPattern = regexp.MustCompile(
	`^([A-ZÀ-Ÿa-zà-ÿ][A-ZÀ-Ÿa-zà-ÿ0-9 ./()%-]*?)\s+(kWh|kW|UN|kVArh)\s+((?:-?[\d.]+,\d+\s*){2,8})$`,
)

var numberToken = regexp.MustCompile(`-?[\d.]+,\d+`)

// marker sets checked in priority order. A TUSD row also contains
// "ENERGIA", so grid usage is tested before consumption.
var (
	gridMarkers        = []string{"TUSD", "USO DO SISTEMA", "USO SISTEMA", "DISTRIBUIÇÃO", "FIO B"}
	consumptionMarkers = []string{"ENERGIA ELET", "ENERGIA ELÉT", "CONSUMO", "ENERGIA ATIVA", " TE ", "ENERGIA KWH"}
	injectionMarkers   = []string{"INJETADA", "INJEÇÃO", "COMPENSADA", "GERAÇÃO", "SCEE", "MICRO GERA", "MINI GERA"}
	lightingMarkers    = []string{"ILUM", "COSIP", "CIP ", "CONTRIB ILUM"}
	flagMarkers        = []string{"BANDEIRA", "ADICIONAL BAND"}
	financialMarkers   = []string{"MULTA", "JUROS", "PARCELAMENTO", "PARCELA", "ATUALIZA", "DEVOLUÇÃO", "DÉBITO", "CRÉDITO ANT"}
	demandMarkers      = []string{"DEMANDA"}
)

// Row parses and classifies one normalized text line. It returns nil when
// the line does not match the tabular row shape. Anomalies found on a
// plausible-looking but out-of-range row are appended to the returned
// slice; the item itself is always returned alongside them.
func Row(line string, cfg Config) (*model.LineItem, []model.Anomaly) {
	m := rowPattern.FindStringSubmatch(normalize.Text(line))
	if m == nil {
		return nil, nil
	}

	desc := strings.TrimSpace(m[1])
	unit := m[2]
	cols := numberToken.FindAllString(m[3], -1)
	if len(cols) < 1 {
		return nil, nil
	}

	item := &model.LineItem{
		Description: desc,
		Unit:        unit,
		Type:        typeOf(desc, cols),
	}
	assignColumns(item, unit, cols)
	return item, checkPlausibility(item, cfg)
}

// typeOf applies the classification policy in order; first match wins.
// The signed value of the row only matters for the injection rule.
func typeOf(desc string, cols []string) model.ItemType {
	u := " " + strings.ToUpper(desc) + " "

	switch {
	case containsAny(u, gridMarkers):
		return model.ItemGridUsage
	case containsAny(u, consumptionMarkers):
		return model.ItemEnergyConsumption
	case containsAny(u, injectionMarkers) || rowValueNegative(cols):
		return model.ItemInjectedEnergy
	case containsAny(u, lightingMarkers):
		return model.ItemPublicLighting
	case containsAny(u, flagMarkers):
		return model.ItemTariffFlag
	case containsAny(u, financialMarkers):
		return model.ItemFinancialAdjustment
	case containsAny(u, demandMarkers):
		return model.ItemDemand
	default:
		return model.ItemOther
	}
}

// assignColumns maps the numeric columns by the row's unit token. Flat-fee
// rows ("UN") carry a single meaningful value; energy rows carry quantity,
// tariff and value at fixed positions, with tax columns when present.
func assignColumns(item *model.LineItem, unit string, cols []string) {
	switch unit {
	case "UN":
		one := 1.0
		item.Quantity = &one
		item.GrossValue = normalize.Amount(cols[len(cols)-1])
		if item.GrossValue != nil {
			item.UnitPrice = item.GrossValue
		}
	default:
		item.Quantity = normalize.Amount(cols[0])
		if len(cols) >= 2 {
			item.UnitPrice = normalize.Amount(cols[1])
		}
		if len(cols) >= 3 {
			item.GrossValue = normalize.Amount(cols[2])
		}
		if len(cols) >= 4 {
			item.TaxValue = normalize.Amount(cols[3])
		}
		if len(cols) >= 5 {
			item.NetTariff = normalize.Amount(cols[len(cols)-1])
		} else {
			item.NetTariff = item.UnitPrice
		}
	}
}

func checkPlausibility(item *model.LineItem, cfg Config) []model.Anomaly {
	if cfg.MaxTariffPerKWh <= 0 {
		cfg.MaxTariffPerKWh = DefaultConfig().MaxTariffPerKWh
	}
	if cfg.MaxQuantityKWh <= 0 {
		cfg.MaxQuantityKWh = DefaultConfig().MaxQuantityKWh
	}

	var anomalies []model.Anomaly
	if item.UnitPrice != nil && item.Unit == "kWh" && abs(*item.UnitPrice) > cfg.MaxTariffPerKWh {
		anomalies = append(anomalies, model.Anomaly{
			Kind:        model.AnomalyHighTariff,
			Description: "tarifa por kWh acima do teto de sanidade",
			RelatedItem: item.Description,
		})
	}
	if item.Quantity != nil && abs(*item.Quantity) > cfg.MaxQuantityKWh {
		anomalies = append(anomalies, model.Anomaly{
			Kind:        model.AnomalyHighQuantity,
			Description: "quantidade acima do teto de sanidade",
			RelatedItem: item.Description,
		})
	}
	return anomalies
}

func rowValueNegative(cols []string) bool {
	if len(cols) == 0 {
		return false
	}
	v := normalize.Amount(cols[len(cols)-1])
	return v != nil && *v < 0
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, strings.ToUpper(m)) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
