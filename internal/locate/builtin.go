package locate

// Static identifiers of the issuing utility. They resemble per-customer
// fields (the state registration is a 10-digit number inside the UC length
// band) and must never be selected as instance values.
var issuerDecoys = []string{
	"04.368.898/0001-06", // issuer tax id
	"9023307399",         // issuer state registration
}

func fptr(v float64) *float64 { return &v }

// builtinSpecs is the consolidated, prioritized locator configuration for
// every scalar field, unifying the historical per-revision heuristics.
var builtinSpecs = []FieldSpec{
	{
		Key: "uc",
		Patterns: []PatternTemplate{
			{ID: "uc_label", Pattern: `(?i)UNIDADE\s+CONSUMIDORA\s*:?\s*([A-Z]{0,3}\s*\d{8,10})\b`},
			{ID: "uc_short", Pattern: `(?i)\bUC\s*:?\s*(\d{8,10})\b`},
			{ID: "uc_bare", Pattern: `\b([A-Z]{1,3}\s*\d{8,10}|\d{8,10})\b`},
		},
		Anchors: []AnchorRule{
			{ID: "uc_below", Label: "CONSUMIDORA", Direction: DirectionBelow, MaxVGap: 20, MinOverlap: 0.3, ValuePattern: `^\d{8,10}$`},
			{ID: "uc_right", Label: "UNIDADE", Direction: DirectionRight, MaxRightGap: 250, ValuePattern: `^\d{8,10}$`},
		},
		Policy: Policy{Denylist: issuerDecoys, MinDigits: 8, MaxDigits: 10, TieBreak: TieBreakFirst},
	},
	{
		Key: "mes_referencia",
		Patterns: []PatternTemplate{
			{ID: "ref_label", Pattern: `(?i)refer[eê]ncia\s*:?\s*(\d{2}/\d{4})`},
			{ID: "ref_bare", Pattern: `\b(\d{2}/\d{4})\b`},
		},
		Anchors: []AnchorRule{
			{ID: "ref_below", Label: "REFERÊNCIA", Direction: DirectionBelow, MaxVGap: 20, ValuePattern: `^\d{2}/\d{4}$`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "vencimento",
		Patterns: []PatternTemplate{
			{ID: "venc_label", Pattern: `(?i)vencimento\s*:?\s*(\d{2}/\d{2}/\d{4})`},
			{ID: "venc_bare", Pattern: `\b(\d{2}/\d{2}/\d{4})\b`},
		},
		Anchors: []AnchorRule{
			{ID: "venc_below", Label: "VENCIMENTO", Direction: DirectionBelow, MaxVGap: 20, ValuePattern: `^\d{2}/\d{2}/\d{4}$`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "valor_total",
		Patterns: []PatternTemplate{
			{ID: "total_label", Pattern: `(?i)(?:total\s+a\s+pagar|valor\s+a\s+pagar|valor\s+total)\s*:?\s*R?\$?\s*([\d.,]+)`},
			{ID: "total_currency", Pattern: `R\$\s*([\d.,]+)`},
		},
		Anchors: []AnchorRule{
			{ID: "total_below", Label: "PAGAR", Direction: DirectionBelow, MaxVGap: 22, ValuePattern: `^R?\$?[\d.,]+$`},
		},
		Policy: Policy{MinValue: fptr(0.01), MaxValue: fptr(1_000_000), TieBreak: TieBreakRange},
	},
	{
		Key: "nome",
		Patterns: []PatternTemplate{
			{ID: "nome_label", Pattern: `(?i)Nome:\s*([^\n]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "cpf",
		Patterns: []PatternTemplate{
			{ID: "cpf_label", Pattern: `(?i)CPF:\s*([0-9.\-*]+)`},
			{ID: "cnpj_label", Pattern: `(?i)CNPJ:\s*([0-9./\-*]+)`},
		},
		Policy: Policy{Denylist: issuerDecoys, TieBreak: TieBreakFirst},
	},
	{
		Key: "endereco",
		Patterns: []PatternTemplate{
			{ID: "end_label", Pattern: `(?is)Endere[çc]o:\s*(.*?)\s*(?:CEP|Cidade:)`},
			{ID: "end_line", Pattern: `(?i)Endere[çc]o:\s*([^\n]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "cidade",
		Patterns: []PatternTemplate{
			{ID: "cidade_label", Pattern: `(?i)Cidade:\s*([A-Za-zÀ-ÿ ]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "uf",
		Patterns: []PatternTemplate{
			{ID: "uf_label", Pattern: `(?i)Estado:\s*([A-Z]{2})\b`},
			{ID: "uf_dash", Pattern: `\b[A-ZÀ-Ÿ]{3,}\s*-\s*([A-Z]{2})\b`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "cep",
		Patterns: []PatternTemplate{
			{ID: "cep_bare", Pattern: `\b(\d{5}-\d{3})\b`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "classificacao",
		Patterns: []PatternTemplate{
			{ID: "class_label", Pattern: `(?i)Classifica[cç][aã]o:\s*([^\n]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "subgrupo",
		Patterns: []PatternTemplate{
			{ID: "subgrupo_bare", Pattern: `\b(B[1-4]|A[1-4]|A3A|AS)\b`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "tipo_fornecimento",
		Patterns: []PatternTemplate{
			{ID: "forn_label", Pattern: `(?i)Tipo\s+de\s+Fornecimento:\s*([^\n]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "corrente",
		Patterns: []PatternTemplate{
			{ID: "corrente_slash", Pattern: `/\s*(\d+A)\b`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "fases",
		Patterns: []PatternTemplate{
			{ID: "fases_word", Pattern: `(?i)((?:mono|bi|tri)f[aá]sico)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "medidor",
		Patterns: []PatternTemplate{
			{ID: "medidor_label", Pattern: `(?i)Medidor\s+(\d{6,12})\b`},
		},
		Policy: Policy{Denylist: issuerDecoys, TieBreak: TieBreakFirst},
	},
	{
		Key: "numero_fatura",
		Patterns: []PatternTemplate{
			{ID: "fatura_label", Pattern: `(?i)N[uú]mero\s+da\s+fatura:\s*([A-Z0-9\-]+)`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "data_emissao",
		Patterns: []PatternTemplate{
			{ID: "emissao_label", Pattern: `(?i)DATA\s+DE\s+EMISS[AÃ]O:\s*(\d{2}/\d{2}/\d{4})`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "chave_acesso",
		Patterns: []PatternTemplate{
			{ID: "chave_label", Pattern: `(?i)Chave\s+de\s+Acesso\s*:?\s*([\d\s]{44,60})`},
		},
		Policy: Policy{MinDigits: 44, MaxDigits: 44, TieBreak: TieBreakFirst},
	},
	{
		Key: "leitura_anterior_data",
		Patterns: []PatternTemplate{
			{ID: "lant_label", Pattern: `(?i)Leitura\s+anterior\s*:?\s*(\d{2}/\d{2}/\d{4})`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "leitura_atual_data",
		Patterns: []PatternTemplate{
			{ID: "latu_label", Pattern: `(?i)Leitura\s+atual\s*:?\s*(\d{2}/\d{2}/\d{4})`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "proxima_leitura",
		Patterns: []PatternTemplate{
			{ID: "prox_label", Pattern: `(?i)Pr[óo]xima\s+Leitura\s*:?\s*(\d{2}/\d{2}/\d{4})`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
	{
		Key: "numero_dias",
		Patterns: []PatternTemplate{
			{ID: "dias_label", Pattern: `(?i)N[ºo°]\s*de\s*dias\s*:?\s*(\d{1,3})\b`},
		},
		Policy: Policy{TieBreak: TieBreakFirst},
	},
}

// NewBuiltinRegistry returns the registry preloaded with the built-in
// field specs. extraDenylist extends every spec's decoy denylist, for
// issuer constants supplied via configuration.
func NewBuiltinRegistry(extraDenylist []string) (*Registry, error) {
	specs := make([]FieldSpec, len(builtinSpecs))
	copy(specs, builtinSpecs)
	if len(extraDenylist) > 0 {
		for i := range specs {
			specs[i].Policy.Denylist = append(append([]string{}, specs[i].Policy.Denylist...), extraDenylist...)
		}
	}
	return NewRegistry(specs)
}
