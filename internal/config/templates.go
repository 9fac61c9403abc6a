package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// NotifyTemplates holds the message templates used by the channel
// dispatcher. Placeholders use Go template-style {{ }} markers and are
// substituted by the notification service.
type NotifyTemplates struct {
	ProductCaption string `mapstructure:"productCaption"`
	StockCaption   string `mapstructure:"stockCaption"`
	OrderButton    string `mapstructure:"orderButton"`
}

func DefaultNotifyTemplates() NotifyTemplates {
	return NotifyTemplates{
		ProductCaption: "<b>{{name}}</b>\n\n<i>{{description}}</i>\n\n<b>Price:</b> {{price}}\n",
		StockCaption:   "<b>{{name}}</b> is back in stock: {{quantity}} units available.",
		OrderButton:    "Order Now",
	}
}

// NotifyTemplatesHolder serves the current templates and hot-reloads them
// when the backing file changes.
type NotifyTemplatesHolder struct {
	current atomic.Value // holds NotifyTemplates
}

func NewNotifyTemplatesHolder() (*NotifyTemplatesHolder, error) {
	v := viper.New()

	v.SetConfigName("notify")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/backoffice/config")
	v.AddConfigPath("/etc/backoffice")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultNotifyTemplates()
		v.SetDefault("notify.productCaption", defaults.ProductCaption)
		v.SetDefault("notify.stockCaption", defaults.StockCaption)
		v.SetDefault("notify.orderButton", defaults.OrderButton)
	}

	var tpl NotifyTemplates
	if err := v.UnmarshalKey("notify", &tpl); err != nil {
		return nil, err
	}
	if err := validateNotifyTemplates(tpl); err != nil {
		return nil, err
	}

	holder := &NotifyTemplatesHolder{}
	holder.current.Store(tpl)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated NotifyTemplates
		if err := v.UnmarshalKey("notify", &updated); err != nil {
			log.Printf("[notify-config] reload failed: %v", err)
			return
		}
		if err := validateNotifyTemplates(updated); err != nil {
			log.Printf("[notify-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[notify-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *NotifyTemplatesHolder) Get() NotifyTemplates {
	return h.current.Load().(NotifyTemplates)
}

func validateNotifyTemplates(tpl NotifyTemplates) error {
	if strings.TrimSpace(tpl.ProductCaption) == "" {
		return errors.New("notify.productCaption cannot be empty")
	}
	if strings.TrimSpace(tpl.StockCaption) == "" {
		return errors.New("notify.stockCaption cannot be empty")
	}
	return nil
}
