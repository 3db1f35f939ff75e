package converter

import (
	"time"

	"github.com/ayo6706/fx-converter/internal/domain"
	"go.uber.org/zap"
)

// loggingConverter decorates a Converter with structured logs.
// Errors are logged and still returned to the caller.
type loggingConverter struct {
	logger *zap.Logger
	next   Converter
}

// NewLoggingConverter returns next wrapped with zap logging.
func NewLoggingConverter(logger *zap.Logger, next Converter) Converter {
	return &loggingConverter{logger: logger, next: next}
}

func (c *loggingConverter) ConvertToPrice(from domain.Money, to domain.Currency) (result domain.Money, err error) {
	defer c.logConversion("convert_to_price", from, to, time.Now(), &result, &err)
	return c.next.ConvertToPrice(from, to)
}

func (c *loggingConverter) ConvertProportionally(from domain.Money, to domain.Currency) (result domain.Money, err error) {
	defer c.logConversion("convert_proportionally", from, to, time.Now(), &result, &err)
	return c.next.ConvertProportionally(from, to)
}

func (c *loggingConverter) Convert(from domain.Money, to domain.Currency, policy domain.ScalePolicy, mode domain.RoundingMode) (result domain.Money, err error) {
	defer c.logConversion("convert", from, to, time.Now(), &result, &err,
		zap.Stringer("policy", policy),
		zap.Stringer("rounding", mode),
	)
	return c.next.Convert(from, to, policy, mode)
}

func (c *loggingConverter) ExchangeRate(from, to domain.Currency) (rate *domain.ExchangeRate, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Duration("took", time.Since(begin)),
		}
		if err != nil {
			c.logger.Warn("exchange rate lookup failed", append(fields, zap.Error(err))...)
			return
		}
		c.logger.Debug("exchange rate resolved", append(fields, zap.Stringer("rate", rate.RateValue()))...)
	}(time.Now())
	return c.next.ExchangeRate(from, to)
}

func (c *loggingConverter) logConversion(method string, from domain.Money, to domain.Currency, begin time.Time, result *domain.Money, err *error, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("method", method),
		zap.Stringer("amount", from),
		zap.Stringer("to", to),
		zap.Duration("took", time.Since(begin)),
	}, extra...)
	if *err != nil {
		c.logger.Warn("conversion failed", append(fields, zap.Error(*err))...)
		return
	}
	c.logger.Debug("converted", append(fields, zap.Stringer("result", *result))...)
}
