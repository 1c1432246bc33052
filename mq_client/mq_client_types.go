package mq_client

type Exchange struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type Queue struct {
	Name    string `yaml:"name"`
	Durable bool   `yaml:"durable"`
}

type Channel struct {
	Prefetch int `yaml:"prefetch"`
}

type MQClientConfig struct {
	Exchange struct {
		Notification Exchange `yaml:"notification"`
		Events       Exchange `yaml:"events"`
	}
	Queue struct {
		AuditWriter     Queue `yaml:"audit_writer"`
		EventsProcessor Queue `yaml:"events_processor"`
	}
	Channel struct {
		EventsProcessor Channel `yaml:"events_processor"`
	}
}
