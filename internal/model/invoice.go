package model

// ExtractionSource tags which strategy produced the final record.
type ExtractionSource string

const (
	// SourcePrimary means the pattern/spatial pipeline produced a complete record.
	SourcePrimary ExtractionSource = "PRIMARY"
	// SourcePrimaryIncomplete means the primary pipeline ran but critical
	// fields are missing and no alternate strategy was available.
	SourcePrimaryIncomplete ExtractionSource = "PRIMARY_INCOMPLETE"
	// SourceFallbackAI means an AI-based alternate extractor produced the record.
	SourceFallbackAI ExtractionSource = "FALLBACK_AI"
)

// Confidence is a categorical completeness score for an extracted record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceFloor  Confidence = "floor"
)

// ItemType classifies a billed line item.
type ItemType string

const (
	ItemEnergyConsumption   ItemType = "ENERGY_CONSUMPTION"
	ItemGridUsage           ItemType = "GRID_USAGE"
	ItemInjectedEnergy      ItemType = "INJECTED_ENERGY"
	ItemPublicLighting      ItemType = "PUBLIC_LIGHTING"
	ItemTariffFlag          ItemType = "TARIFF_FLAG"
	ItemFinancialAdjustment ItemType = "FINANCIAL_ADJUSTMENT"
	ItemDemand              ItemType = "DEMAND"
	ItemOther               ItemType = "OTHER"
)

// ReadingKind distinguishes consumption registers from generation registers.
type ReadingKind string

const (
	ReadingConsumption ReadingKind = "CONSUMPTION"
	ReadingGeneration  ReadingKind = "GENERATION"
)

// Anomaly kinds emitted by the classifier and consolidator.
const (
	AnomalyHighTariff      = "tarifa_alta"
	AnomalyHighQuantity    = "quantidade_alta"
	AnomalyInjectionRatio  = "injecao_desproporcional"
	AnomalyReadingRollback = "leitura_retrocedida"
	AnomalyUnparseable     = "numero_ilegivel"
)

// Address holds the client address components.
type Address struct {
	Street *string `json:"logradouro"`
	City   *string `json:"cidade"`
	State  *string `json:"uf"`
	Zip    *string `json:"cep"`
}

// Client identifies who the invoice bills and the service point it covers.
// UC is the utility-assigned premise identifier.
type Client struct {
	Name    *string `json:"nome"`
	TaxID   *string `json:"cpf"`
	Address Address `json:"endereco"`
	UC      *string `json:"uc"`
}

// BillingPeriod holds the invoice reference month, due date and total due.
type BillingPeriod struct {
	ReferenceMonth *string  `json:"mes_referencia"`
	DueDate        *string  `json:"vencimento"`
	TotalDue       *float64 `json:"valor_total"`
	InvoiceNumber  *string  `json:"numero_fatura"`
	IssueDate      *string  `json:"data_emissao"`
	AccessKey      *string  `json:"chave_acesso"`
}

// TaxComponent is one tax line (base, rate, amount), all optional.
type TaxComponent struct {
	Base   *float64 `json:"base_calculo"`
	Rate   *float64 `json:"aliquota_percentual"`
	Amount *float64 `json:"valor"`
}

// Taxes groups the tax components billed on the invoice.
type Taxes struct {
	ICMS   TaxComponent `json:"icms"`
	PIS    TaxComponent `json:"pis"`
	COFINS TaxComponent `json:"cofins"`
}

// LineItem is one classified row of the billed-items table.
type LineItem struct {
	Description string   `json:"descricao"`
	Type        ItemType `json:"tipo"`
	Unit        string   `json:"unidade"`
	Quantity    *float64 `json:"quantidade"`
	UnitPrice   *float64 `json:"valor_unitario"`
	NetTariff   *float64 `json:"tarifa_liquida"`
	GrossValue  *float64 `json:"valor_bruto"`
	TaxValue    *float64 `json:"valor_tributos"`
}

// MeterReading is one register row of the measurement table.
type MeterReading struct {
	MeterID       *string     `json:"medidor"`
	Kind          ReadingKind `json:"tipo"`
	Previous      *float64    `json:"leitura_anterior"`
	Current       *float64    `json:"leitura_atual"`
	Multiplier    float64     `json:"constante"`
	ComputedValue *float64    `json:"valor_apurado"`
	Rollover      bool        `json:"virada_medidor"`
}

// HistoryEntry is one month of the consumption history block.
type HistoryEntry struct {
	Period     string `json:"mes"`
	EnergyKWh  int    `json:"kwh"`
	BilledDays int    `json:"dias"`
}

// NetMeteringBalance holds SCEE credit balances, in kWh. Present only when
// the invoice indicates participation in the compensation scheme.
type NetMeteringBalance struct {
	Participates  bool     `json:"participa"`
	Accumulated   *float64 `json:"saldo_acumulado_kwh"`
	MonthlyCredit *float64 `json:"credito_mes_kwh"`
	Expiring      *float64 `json:"saldo_a_expirar_kwh"`
}

// TariffFlagPeriod is one color-coded pricing-adjustment period.
type TariffFlagPeriod struct {
	Flag  string  `json:"bandeira"`
	Start *string `json:"inicio"`
	End   *string `json:"fim"`
}

// Technical holds contract and supply attributes.
type Technical struct {
	Classification *string `json:"classificacao"`
	Subgroup       *string `json:"subgrupo"`
	SupplyType     *string `json:"tipo_fornecimento"`
	Phases         *string `json:"fases"`
	Current        *string `json:"corrente"`
	MeterNumber    *string `json:"medidor"`
	UnitType       string  `json:"tipo_unidade"`
}

// EnergySummary holds aggregates derived by the consolidator.
type EnergySummary struct {
	TotalConsumedKWh   float64  `json:"total_consumido_kwh"`
	TotalInjectedKWh   float64  `json:"total_injetado_kwh"`
	NetConsumptionKWh  float64  `json:"consumo_liquido_kwh"`
	CompensationPct    float64  `json:"percentual_compensacao"`
	SelfSufficient     bool     `json:"autossuficiente"`
	NetTariffPerKWh    *float64 `json:"tarifa_liquida_total"`
	PublicLightingCost *float64 `json:"valor_ip"`
}

// Savings is the discount projection computed from the invoice total.
type Savings struct {
	DiscountPct     int     `json:"percentual_desconto"`
	MonthlySavings  float64 `json:"economia_mensal"`
	AnnualSavings   float64 `json:"economia_anual"`
	DiscountedTotal float64 `json:"valor_com_desconto"`
}

// Anomaly is an advisory finding; it never blocks record production.
type Anomaly struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	RelatedItem string `json:"related_item,omitempty"`
}

// InvoiceRecord is the output aggregate of one extraction call. It is
// created fresh per call, immutable after consolidation, and keeps a stable
// shape: missing fields are nil, never omitted keys.
type InvoiceRecord struct {
	Client      Client              `json:"cliente"`
	Billing     BillingPeriod       `json:"referencia_fatura"`
	LineItems   []LineItem          `json:"itens_fatura"`
	Readings    []MeterReading      `json:"medicoes"`
	History     []HistoryEntry      `json:"historico_consumo"`
	Taxes       Taxes               `json:"tributos"`
	NetMetering *NetMeteringBalance `json:"scee"`
	FlagPeriods []TariffFlagPeriod  `json:"bandeiras"`
	Technical   Technical           `json:"dados_tecnicos"`
	Energy      EnergySummary       `json:"energia"`
	Savings     *Savings            `json:"economia"`
	Anomalies   []Anomaly           `json:"anomalias"`
	Confidence  Confidence          `json:"confianca"`
	Source      ExtractionSource    `json:"origem_extracao"`
}

// AddAnomaly appends an advisory finding to the record.
func (r *InvoiceRecord) AddAnomaly(kind, description, related string) {
	r.Anomalies = append(r.Anomalies, Anomaly{Kind: kind, Description: description, RelatedItem: related})
}

// HasCriticalFields reports whether the premise identifier and the total
// amount due were both resolved.
func (r *InvoiceRecord) HasCriticalFields() bool {
	return r.Client.UC != nil && r.Billing.TotalDue != nil
}
