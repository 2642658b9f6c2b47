package remote

import "fmt"

// DBConfigFromYamlObj builds the connection config from its yaml
// representation. Credentials may be absent for local development setups.
func DBConfigFromYamlObj(yamlObj DBConfigYaml) DBConfig {
	uri := fmt.Sprintf(`mongodb%s://%s`, yamlObj.ConnectionPrefix, yamlObj.ConnectionStr)
	if yamlObj.Username != "" {
		uri = fmt.Sprintf(`mongodb%s://%s:%s@%s`, yamlObj.ConnectionPrefix, yamlObj.Username, yamlObj.Password, yamlObj.ConnectionStr)
	}

	return DBConfig{
		URI:             uri,
		DBName:          yamlObj.DBName,
		Timeout:         yamlObj.Timeout,
		IdleConnTimeout: yamlObj.IdleConnTimeout,
		MaxPoolSize:     uint64(yamlObj.MaxPoolSize),
	}
}
