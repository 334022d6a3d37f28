// Package files provides file discovery for the extraction step.
//
// Discovery lists the CSV files of an input directory in a stable order and
// maps each file to its table name:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	csvFiles, err := discovery.FindCSVFiles("data")
//	for _, f := range csvFiles {
//	    fmt.Println(f.TableName()) // olist_orders, olist_order_items, ...
//	}
package files
