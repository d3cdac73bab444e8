/*
Package timelock implements a single receiver escrow released after a point
in time.

Lock takes custody of a token account by reassigning its owner to an address
derived from the receiver. Nobody holds a key for that address; only Unlock
can authorize movements from it, and only once the block time reached the
unlock time. Unlock moves the whole balance to the receiver account and
deletes the escrow.

The escrow address depends only on the receiver, so a receiver can have at
most one timelock at a time.
*/
package timelock
