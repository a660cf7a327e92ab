package validate

type Request struct {
	RunID         string
	SchemaPath    string
	InstancePaths []string
}

type Options struct {
	// Jobs bounds how many instances are loaded and validated at once.
	// Values below 2 keep processing strictly sequential.
	Jobs int
}
