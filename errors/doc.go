/*
Package errors implements custom error interfaces for the timelock chain.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Extensions register their
own root errors with Register(code, description); x/timelock is a good package
to look at for that.

Each root error carries an ABCI code, which allows clients to distinguish
types of errors and act accordingly.

Create errors at the point of failure with Wrap or Wrapf so that a stacktrace
is attached. If you wrap multiple times, only the innermost wrap records the
stacktrace. Do not declare package level variables with Wrap, or the recorded
stacktrace is useless.

Once you have an error, use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
*/
package errors
