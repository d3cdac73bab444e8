/*
Package token implements fungible token accounts.

Every account holds a single currency and has an owner. Only the owner may
move tokens out of an account or hand the account over to a new owner. The
owner can be a key holder as well as an address derived by another extension,
which is how the timelock extension takes custody of an account.
*/
package token
