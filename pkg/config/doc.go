// # Environment Variable Substitution
//
// YAML files may reference environment variables with ${VAR_NAME}, or
// ${VAR_NAME:-fallback} to supply a default:
//
//	# colseries.yaml
//	name: quotes-loader
//	store:
//	  driver: mongodb
//	  uri: ${MONGO_URI:-mongodb://localhost:27017}
//	  database: market
//	  collection: frames
//	codec:
//	  workers: 4
//	logging:
//	  level: debug
//
// Values missing from the file keep the defaults from Default.
package config
