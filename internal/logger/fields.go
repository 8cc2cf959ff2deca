package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRequestID identifies one recommendation request across log entries.
	FieldRequestID = "request_id"
	// FieldStrategy is the recommendation strategy name.
	FieldStrategy = "strategy"
	// FieldUserID is the customer the recommendations are computed for.
	FieldUserID = "user_id"
	// FieldLimit is the requested number of workers.
	FieldLimit = "limit"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a no-op
// logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RecommendationFields returns the fields describing a recommendation request.
// Empty strings and a zero user id are left out; anonymous requests stay compact.
func RecommendationFields(requestID, strategy string, userID int64, limit int) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldRequestID, Value: requestID},
		StringField{Key: FieldStrategy, Value: strategy},
	)

	if userID > 0 {
		fields = append(fields, zap.Int64(FieldUserID, userID))
	}

	if limit > 0 {
		fields = append(fields, zap.Int(FieldLimit, limit))
	}

	return fields
}

// WithRecommendation attaches the request fields to the logger.
func WithRecommendation(logger *zap.Logger, requestID, strategy string, userID int64, limit int) *zap.Logger {
	return WithFields(logger, RecommendationFields(requestID, strategy, userID, limit)...)
}
