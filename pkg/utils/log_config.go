package utils

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// InitLogger sets the global logrus level and formatter. format is either
// "text" (default) or "json".
func InitLogger(logLevel, format string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   false,
		})
	}
	logrus.SetLevel(level)
	return nil
}

// ConfigKeys returns the keys of a defaults table in a stable order.
func ConfigKeys(defaults map[string]any) []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func PrintConfig(v *viper.Viper, configVars ...string) {
	var varsString string
	for _, variable := range configVars {
		varsString += variable + "=" + v.GetString(variable) + "; "
	}
	logrus.Infof("action: config | result: success | variables: %s", varsString)
}
