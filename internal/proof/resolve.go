package proof

import (
	"github.com/sirupsen/logrus"

	"proofgen-backend/internal/config"
	"proofgen-backend/internal/models"
)

type BindingLookup interface {
	GetMockupBinding(sku string) (*models.MockupBinding, error)
}

// ResolveBinding picks the mockup template for an order. A binding for the
// first line item's SKU wins; otherwise the configured default applies unless
// it is the unset sentinel. Returns nil when no binding is usable, in which
// case callers fall back to raw artwork. Lookup errors are swallowed:
// resolution never aborts a pipeline run.
func ResolveBinding(lookup BindingLookup, cfg *config.Config, order *models.OrderDetail) *models.MockupBinding {
	var sku string
	if len(order.Products) > 0 {
		sku = order.Products[0].ProductID
	}

	if sku != "" {
		binding, err := lookup.GetMockupBinding(sku)
		if err != nil {
			logrus.WithError(err).WithField("sku", sku).Warn("mockup binding lookup failed")
		} else if binding != nil && binding.MockupUUID != "" && binding.SmartObjectUUID != "" {
			logrus.WithField("sku", sku).Info("found mockup binding for sku")
			return binding
		}
	}

	if cfg.DefaultBindingConfigured() {
		logrus.Info("using default mockup template")
		return &models.MockupBinding{
			MockupUUID:      cfg.DefaultMockupUUID,
			SmartObjectUUID: cfg.DefaultSmartUUID,
		}
	}

	logrus.Info("no mockup binding found, will use raw artwork")
	return nil
}
