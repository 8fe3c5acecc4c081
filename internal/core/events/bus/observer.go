package bus

import "github.com/zeusync/gimbal/internal/core/observability/log"

var _ EventBusObserver = (*LogObserver)(nil)

// LogObserver writes every delivery to a logger at debug level and failed
// deliveries at warn level.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{logger: logger.With(log.String("component", "bus"))}
}

func (o *LogObserver) OnPublish(topic, eventType string, event Event) {
	o.logger.Debug("event published",
		log.String("topic", topic),
		log.String("type", eventType),
		log.String("source", event.Source()))
}

func (o *LogObserver) OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64) {
	if err != nil {
		o.logger.Warn("event delivery failed",
			log.String("topic", topic),
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Error(err))
		return
	}
	o.logger.Debug("event delivered",
		log.String("topic", topic),
		log.String("type", eventType),
		log.Int("handlers", handlers),
		log.Int64("micros", durationMicros))
}
