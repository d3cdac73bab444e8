/*
Package x holds the extensions of the timelock application.

Each sub-package implements a self contained piece of functionality (token
accounts, signatures, timelocks) as Handlers and Decorators that are wired
together by the application. This package only provides the authentication
glue shared by all of them.
*/
package x
