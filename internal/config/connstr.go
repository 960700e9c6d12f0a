package config

import "fmt"

func MakeConnStr(conf Database) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		conf.Host, conf.User, conf.Password, conf.Name, conf.Port, conf.SSLMode)
}
