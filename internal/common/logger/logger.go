// Package logger 提供结构化日志功能
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dumeirei/tbsg-pay-adapter/internal/common/config"
)

var log *zap.Logger

// Init 初始化全局日志
func Init(cfg *config.LoggerConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	log = l
	return nil
}

// New 根据配置创建日志器
func New(cfg *config.LoggerConfig) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writers []zapcore.WriteSyncer
	switch cfg.Output {
	case "file":
		writers = append(writers, fileWriter(cfg))
	case "both":
		writers = append(writers, zapcore.AddSync(os.Stdout), fileWriter(cfg))
	default:
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), parseLevel(cfg.Level))

	options := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Caller {
		options = append(options, zap.AddCaller())
	}
	return zap.New(core, options...), nil
}

// fileWriter 按大小滚动的文件输出
func fileWriter(cfg *config.LoggerConfig) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	})
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger 获取全局日志器，未初始化时返回开发模式日志器
func GetLogger() *zap.Logger {
	if log == nil {
		log, _ = zap.NewDevelopment()
	}
	return log
}

// Sync 刷新缓冲
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}

// Named 返回命名日志器
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error 错误日志
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal 致命错误日志
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// TransactionID 淘宝闪购交易号
func TransactionID(id string) zap.Field {
	return zap.String("transaction_id", id)
}

// OutTradeNo 机构侧支付流水号
func OutTradeNo(no string) zap.Field {
	return zap.String("out_trade_no", no)
}

// RefundNo 淘宝闪购退款单号
func RefundNo(no string) zap.Field {
	return zap.String("refund_no", no)
}

// OutRefundNo 机构侧退款流水号
func OutRefundNo(no string) zap.Field {
	return zap.String("out_refund_no", no)
}

// Amount 金额（分）
func Amount(key string, cents int64) zap.Field {
	return zap.Int64(key, cents)
}

// PayStatus 支付状态
func PayStatus(status string) zap.Field {
	return zap.String("pay_status", status)
}

// BillDate 账单日期
func BillDate(date string) zap.Field {
	return zap.String("bill_date", date)
}

// NotifyURL 回调地址
func NotifyURL(url string) zap.Field {
	return zap.String("notify_url", url)
}

// Mobile 手机号（脱敏后）
func Mobile(masked string) zap.Field {
	return zap.String("mobile", masked)
}

// RequestID 请求ID
func RequestID(id string) zap.Field {
	return zap.String("request_id", id)
}

// Latency 延迟
func Latency(d time.Duration) zap.Field {
	return zap.Duration("latency", d)
}
