package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
)

// ZapLogger реализует LoggerPort поверх zap.
// Событие пишется как message, поля - как структурированные атрибуты.
type ZapLogger struct {
	logger        *zap.Logger
	module        string
	defaultFields out.LogFields
}

// NewZapLogger создает логгер: локально - человекочитаемый вывод с DEBUG,
// в остальных окружениях - JSON с INFO. Таймстемпы пишутся в таймзоне приложения.
func NewZapLogger(timezone string, local bool) (*ZapLogger, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	var zapCfg zap.Config
	if local {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format("2006-01-02 15:04:05.000"))
	}

	zapLogger, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{
		logger:        zapLogger,
		defaultFields: make(out.LogFields),
	}, nil
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	newLogger := &ZapLogger{
		logger:        l.logger,
		module:        l.module,
		defaultFields: make(out.LogFields),
	}

	for k, v := range l.defaultFields {
		newLogger.defaultFields[k] = v
	}
	for k, v := range fields {
		newLogger.defaultFields[k] = v
	}

	return newLogger
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{
		logger:        l.logger,
		module:        module,
		defaultFields: l.defaultFields,
	}
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.log(out.LogLevelDebug, event, fields)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.log(out.LogLevelInfo, event, fields)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.log(out.LogLevelWarn, event, fields)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.log(out.LogLevelError, event, fields)
}

func (l *ZapLogger) log(level out.LogLevel, event string, fields out.LogFields) {
	zapFields := make([]zap.Field, 0, len(l.defaultFields)+len(fields)+1)

	module := l.module
	if module == "" {
		module = "unknown"
	}
	zapFields = append(zapFields, zap.String("module", module))

	for k, v := range l.defaultFields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}

	switch level {
	case out.LogLevelDebug:
		l.logger.Debug(event, zapFields...)
	case out.LogLevelInfo:
		l.logger.Info(event, zapFields...)
	case out.LogLevelWarn:
		l.logger.Warn(event, zapFields...)
	case out.LogLevelError:
		l.logger.Error(event, zapFields...)
	}
}

// Sync сбрасывает буферы zap, вызывается при остановке приложения
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
