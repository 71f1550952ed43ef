package storage

// WrapperVersion is the version of these Go bindings, independent of the
// native engine version reported by Node.Version.
const WrapperVersion = "0.1.0"
