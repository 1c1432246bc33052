package config

import "fmt"

func InitializeConfig() error {
	NewLoggerService()

	if err := ConnectDatabase(); err != nil {
		return fmt.Errorf("database: %v", err)
	}

	if err := NewCacheService(); err != nil {
		return fmt.Errorf("redis: %v", err)
	}

	if err := NewInfluxDB(); err != nil {
		return fmt.Errorf("influxdb: %v", err)
	}

	return nil
}
