package codegen

// runtimeDecls is the fixed set of C-linkage entry points every emitted
// module declares verbatim; the linker resolves them against the runtime
// library (spec section 6.2). Grouped exactly as the spec groups them, so
// a reader can check one family against the list without re-deriving it.
var runtimeDecls = []string{
	// GC & barriers
	"declare void @gc_write_barrier(ptr, ptr)",
	"declare void @gc_pre_barrier(ptr)",
	"declare void @gc_register_root(ptr)",
	"declare void @gc_unregister_root(ptr)",
	"declare void @gc_collect()",
	"declare void @gc_stats(ptr)",
	"declare void @gc_set_barrier_mode(i32)",
	"declare void @gc_set_threshold(i64)",
	"declare void @gc_set_conservative(i1)",
	"declare void @gc_set_background(i1)",

	// Boxed primitives
	"declare ptr @box_int(i32)",
	"declare ptr @box_float(double)",
	"declare ptr @box_bool(i1)",
	"declare i32 @unbox_int(ptr)",
	"declare double @unbox_float(ptr)",
	"declare i1 @unbox_bool(ptr)",

	// Strings
	"declare ptr @string_new(ptr, i64)",
	"declare i64 @string_len(ptr)",
	"declare ptr @string_data(ptr)",
	"declare ptr @string_from_cstr(ptr)",
	"declare ptr @string_concat(ptr, ptr)",
	"declare ptr @string_slice(ptr, i64, i64)",
	"declare ptr @string_repeat(ptr, i64)",
	"declare i1 @string_contains(ptr, ptr)",
	"declare i64 @string_charlen(ptr)",
	"declare i1 @string_eq(ptr, ptr)",
	"declare ptr @string_normalize(ptr)",
	"declare ptr @string_casefold(ptr)",
	"declare ptr @string_encode(ptr)",
	"declare ptr @string_bytes_decode(ptr, i1)",
	"declare i1 @string_utf8_is_valid(ptr)",

	// Bytes / bytearray
	"declare ptr @bytes_new(ptr, i64)",
	"declare i64 @bytes_len(ptr)",
	"declare ptr @bytes_data(ptr)",
	"declare ptr @bytes_slice(ptr, i64, i64)",
	"declare ptr @bytes_concat(ptr, ptr)",
	"declare i64 @bytes_find(ptr, ptr)",
	"declare ptr @bytearray_new(i64)",
	"declare i32 @bytearray_get(ptr, i64)",
	"declare void @bytearray_set(ptr, i64, i32)",
	"declare void @bytearray_append(ptr, i32)",
	"declare void @bytearray_extend_from_bytes(ptr, ptr)",

	// Lists
	"declare ptr @list_new()",
	"declare ptr @list_push_slot(ptr)",
	"declare i64 @list_len(ptr)",
	"declare ptr @list_get(ptr, i64)",
	"declare void @list_set(ptr, i64, ptr)",

	// Dicts
	"declare ptr @dict_new()",
	"declare void @dict_set(ptr, ptr, ptr)",
	"declare ptr @dict_get(ptr, ptr)",
	"declare i64 @dict_len(ptr)",
	"declare ptr @dict_iter_new(ptr)",
	"declare i1 @dict_iter_next(ptr, ptr, ptr)",

	// Objects
	"declare ptr @object_new(i64)",
	"declare void @object_set(ptr, i64, ptr)",
	"declare ptr @object_get(ptr, i64)",
	"declare i64 @object_field_count(ptr)",
	"declare void @object_set_attr(ptr, ptr, ptr)",
	"declare ptr @object_get_attr(ptr, ptr)",
	"declare ptr @object_get_attr_dict(ptr)",

	// Exceptions
	"declare void @rt_raise(ptr, ptr)",
	"declare i1 @rt_has_exception()",
	"declare ptr @rt_current_exception()",
	"declare void @rt_clear_exception()",
	"declare ptr @rt_exception_type(ptr)",
	"declare ptr @rt_exception_message(ptr)",
	"declare ptr @rt_exception_cause(ptr)",
	"declare ptr @rt_exception_context(ptr)",
	"declare void @rt_exception_set_cause(ptr, ptr)",
	"declare void @rt_exception_set_context(ptr, ptr)",

	// I/O & OS
	"declare void @io_write_stdout(ptr, i64)",
	"declare void @io_write_stderr(ptr, i64)",
	"declare ptr @io_read_file(ptr)",
	"declare i1 @io_write_file(ptr, ptr)",
	"declare ptr @os_getenv(ptr)",
	"declare double @os_time_ms()",
	"declare ptr @os_getcwd()",
	"declare i1 @os_mkdir(ptr)",
	"declare i1 @os_remove(ptr)",
	"declare i1 @os_rename(ptr, ptr)",

	// Stdlib shims (thin, opaque-object returns where the shim owns the
	// representation)
	"declare ptr @stdlib_subprocess_run(ptr)",
	"declare i32 @stdlib_subprocess_call(ptr)",
	"declare i32 @stdlib_subprocess_check_call(ptr)",
	"declare ptr @stdlib_sys_platform()",
	"declare ptr @stdlib_sys_version()",
	"declare i64 @stdlib_sys_maxsize()",
	"declare void @stdlib_sys_exit(i32)",
	"declare ptr @stdlib_json_dump_dict(ptr)",
	"declare ptr @stdlib_json_dump_list(ptr)",
	"declare i64 @stdlib_struct_calcsize(ptr)",
	"declare ptr @stdlib_struct_pack(ptr, ptr)",
	"declare ptr @stdlib_struct_unpack(ptr, ptr)",
	"declare ptr @stdlib_argparse_parse_args(ptr, ptr)",

	// Concurrency
	"declare ptr @rt_spawn(ptr, ptr, i64)",
	"declare ptr @rt_join(ptr)",
	"declare ptr @rt_chan_new(i64)",
	"declare void @rt_chan_send(ptr, ptr)",
	"declare ptr @rt_chan_recv(ptr)",
	"declare void @rt_chan_close(ptr)",
	"declare ptr @rt_atomic_new(i64)",
	"declare i64 @rt_atomic_load(ptr)",
	"declare void @rt_atomic_store(ptr, i64)",
	"declare i64 @rt_atomic_add_fetch(ptr, i64)",
}
