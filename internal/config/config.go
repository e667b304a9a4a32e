package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Insales  Insales
	Yookassa Yookassa
	Receipt  Receipt

	// TRU resolution policy for payment articles: "sku-first" or "barcode-only".
	TRUPolicy string `env:"TRU_POLICY" envDefault:"sku-first"`
}

type Yookassa struct {
	ShopID    string `env:"SHOP_ID"`
	SecretKey string `env:"SECRET_KEY"`
	BaseURL   string `env:"YOOKASSA_BASE_URL" envDefault:"https://api.yookassa.ru"`
}

type Insales struct {
	Domain      string `env:"INS_DOMAIN"`
	APIKey      string `env:"INS_API_KEY"`
	APIPassword string `env:"INS_API_PASSWORD"`
	// Overrides the https://{INS_DOMAIN} default, mostly for tests.
	BaseURL string `env:"INS_BASE_URL"`
}

func (i *Insales) ResolveBaseURL() string {
	if i.BaseURL != "" {
		return i.BaseURL
	}
	return "https://" + i.Domain
}

type Receipt struct {
	// 1=20%, 2=10%, 3=0%, 4=no VAT, 5=20/120, 6=10/110
	VATCode int `env:"RECEIPT_VAT_CODE" envDefault:"4"`
	// 0 = omit from receipt; 1..6 = fiscal regime code
	TaxSystem int `env:"RECEIPT_TAX_SYSTEM" envDefault:"0"`
	// When true, a payment is refused if the order carries neither a
	// valid email nor a normalizable phone for the 54-FZ receipt.
	RequireContact bool `env:"RECEIPT_REQUIRE_CONTACT" envDefault:"true"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"3000"`
}

// MissingRequired reports which required credentials are not set. The
// process still starts without them so /env-check stays reachable.
func (c *Config) MissingRequired() []string {
	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"SHOP_ID", c.Yookassa.ShopID},
		{"SECRET_KEY", c.Yookassa.SecretKey},
		{"INS_DOMAIN", c.Insales.Domain},
		{"INS_API_KEY", c.Insales.APIKey},
		{"INS_API_PASSWORD", c.Insales.APIPassword},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}
