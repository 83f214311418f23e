package database

import "os"

// AppConfig carries the settings for the outbound integrations: the CMS that
// receives staff calls through the proxy endpoints and the public product
// catalog the menu screens read from.
type AppConfig struct {
	// Staff-call proxy target.
	CMSBaseURL  string
	CMSUser     string
	CMSPassword string

	// Product catalog (WooCommerce REST, public keys).
	CatalogSiteURL        string
	CatalogConsumerKey    string
	CatalogConsumerSecret string

	// Optional notification fan-out for the owner's companion app.
	AMQPUrl      string
	AMQPExchange string
}

func LoadAppConfig() *AppConfig {
	exchange := os.Getenv("AMQP_NOTIFICATION_EXCHANGE")
	if exchange == "" {
		exchange = "orderland.notifications"
	}

	return &AppConfig{
		CMSBaseURL:            os.Getenv("CMS_BASE_URL"),
		CMSUser:               os.Getenv("CMS_BASIC_AUTH_USER"),
		CMSPassword:           os.Getenv("CMS_BASIC_AUTH_PASSWORD"),
		CatalogSiteURL:        os.Getenv("CATALOG_SITE_URL"),
		CatalogConsumerKey:    os.Getenv("CATALOG_CONSUMER_KEY"),
		CatalogConsumerSecret: os.Getenv("CATALOG_CONSUMER_SECRET"),
		AMQPUrl:               os.Getenv("AMQP_URL"),
		AMQPExchange:          exchange,
	}
}
