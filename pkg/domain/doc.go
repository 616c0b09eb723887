// Package domain contains the entities shared by the registry client, the
// scanner and the storage backends: registry records (companies, officer
// listings), the rows the scan produces, identifier ranges and the persisted
// progress of a run. The types are free of transport and storage concerns so
// every layer can use them.
package domain
