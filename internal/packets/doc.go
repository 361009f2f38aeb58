// Package packets holds the gold-packet domain: the wire types, the list
// query and its pagination math, the submission draft with its validation
// order, and the Service that calls the packet and upload endpoints.
//
// Status updates after approval go through Service.ApplyUpdate, which runs
// the lifted-status call, the optional invoice upload and the invoice-status
// call in sequence and reports the first failing step in an UpdateResult.
package packets
