/*
Package sqldataset provides the means to store datasets on SQL databases and
to read them back for extraction.

The dataset uses 2 database tables:
  * One for storing discrete values
  * One for the samples

Samples are stored on the samples table, with
their discrete values and labels as references to
values in the discrete value table.
*/
package sqldataset
