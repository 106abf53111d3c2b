// Package secret resolves secret references in runtime configuration values
// such as the JWT signing key and settings file entries.
//
// Values may use strict environment expansion (see ExpandEnvStrict) and
// secret references with the prefix "secretref:":
//   - Full value:  secretref:file:/var/run/secrets/statuscheck/jwt
//   - Inline use:  Bearer secretref:env:STATUSCHECK_TOKEN
//
// The built-in env and file providers are available from NewDefaultRegistry.
package secret
