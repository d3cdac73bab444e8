/*
Package anchortl defines the interfaces used throughout the timelock chain,
such as storage, transactions, handlers and conditions. It also contains
helpers to work with context, derived addresses and abci results.

We pass context through context.Context between app, middleware, and
handlers. There exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level modules
overwriting the value (eg. height, header).
*/
package anchortl
